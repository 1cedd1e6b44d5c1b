package services

import (
	"fmt"
	"time"
)

// Clinic hours and slot size. Every booking occupies a fixed
// SlotDuration window regardless of what the patient asked for.
const (
	OpeningTime  = "09:00"
	ClosingTime  = "17:00"
	SlotDuration = 30 * time.Minute
)

var slotMinutes = int(SlotDuration / time.Minute)

// parseLabel converts an "HH:MM" label to minutes since midnight.
func parseLabel(label string) (int, error) {
	t, err := time.Parse("15:04", label)
	if err != nil {
		return 0, fmt.Errorf("invalid time label %q: %w", label, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatLabel(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// SlotGrid returns the ordered candidate labels between open and close at
// SlotDuration steps. The closing label itself is not a bookable slot.
func SlotGrid(open, close string) []string {
	start, err1 := parseLabel(open)
	end, err2 := parseLabel(close)
	if err1 != nil || err2 != nil || start >= end {
		return nil
	}

	var grid []string
	for m := start; m+slotMinutes <= end; m += slotMinutes {
		grid = append(grid, formatLabel(m))
	}
	return grid
}

// AvailableSlots returns the grid labels whose [t, t+SlotDuration) window
// does not overlap any occupied window derived from the booked labels.
// Unparsable booked labels are ignored rather than blocking the whole day.
func AvailableSlots(open, close string, booked []string) []string {
	occupied := make([]int, 0, len(booked))
	for _, label := range booked {
		m, err := parseLabel(label)
		if err != nil {
			continue
		}
		occupied = append(occupied, m)
	}

	grid := SlotGrid(open, close)
	available := make([]string, 0, len(grid))
	for _, label := range grid {
		slotStart, _ := parseLabel(label)
		slotEnd := slotStart + slotMinutes

		free := true
		for _, occStart := range occupied {
			occEnd := occStart + slotMinutes
			if slotStart < occEnd && slotEnd > occStart {
				free = false
				break
			}
		}
		if free {
			available = append(available, label)
		}
	}
	return available
}
