package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healthkonnect/healthkonnect-api/internal/models"
)

type CreateDocumentRequest struct {
	FileName string `json:"fileName" binding:"required"`
	FileURL  string `json:"fileUrl" binding:"required,url"`
	DocType  string `json:"docType"`
}

// CreateDocument attaches a metadata record to the caller's record. The
// file itself lives in external storage; no bytes pass through here.
func (h *Handler) CreateDocument(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	doc := models.MedicalDocument{
		ID:        primitive.NewObjectID(),
		UserID:    uid,
		FileName:  req.FileName,
		FileURL:   req.FileURL,
		DocType:   req.DocType,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := h.DB.Collection("medical_documents").InsertOne(c.Request.Context(), doc); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save document")
		return
	}

	respondData(c, http.StatusCreated, doc)
}

// ListDocuments returns the caller's document records, newest first.
func (h *Handler) ListDocuments(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.DB.Collection("medical_documents").Find(c.Request.Context(), bson.M{"userId": uid}, opts)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to retrieve documents")
		return
	}
	defer cursor.Close(c.Request.Context())

	docs := make([]models.MedicalDocument, 0)
	if err := cursor.All(c.Request.Context(), &docs); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to decode documents")
		return
	}

	respondData(c, http.StatusOK, docs)
}

// DeleteDocument removes one of the caller's own document records.
func (h *Handler) DeleteDocument(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid document id")
		return
	}

	res, err := h.DB.Collection("medical_documents").DeleteOne(c.Request.Context(),
		bson.M{"_id": id, "userId": uid})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete document")
		return
	}
	if res.DeletedCount == 0 {
		respondError(c, http.StatusNotFound, "document not found")
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
