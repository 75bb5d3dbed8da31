// Package entity extracts structured slots from raw chat text.
package entity

import "regexp"

// Slot names recognized by the extractor.
const (
	SlotOrderID = "order_id"
	SlotEmail   = "email"
	SlotPhone   = "phone"
)

// Set maps a slot name to the single value extracted for it.
type Set map[string]string

var (
	// Order ids look like 123-4567890-1234567.
	orderIDRegexp = regexp.MustCompile(`\b\d{3}-\d{7,8}-\d{7,8}\b`)
	emailRegexp   = regexp.MustCompile(`[\w.-]+@[\w.-]+\.[a-zA-Z]{2,}`)
	phoneRegexp   = regexp.MustCompile(`\b\+?\d[\d\s-]{7,}\b`)
)

// Extract scans text with the slot patterns and returns the extracted slots.
// Each slot takes the first match in document order; a slot with no match is
// simply absent. Extract never fails.
func Extract(text string) Set {
	entities := Set{}

	if m := orderIDRegexp.FindString(text); m != "" {
		entities[SlotOrderID] = m
	}
	if m := emailRegexp.FindString(text); m != "" {
		entities[SlotEmail] = m
	}
	// The phone pattern also matches order-id shaped tokens; an order id
	// claims its digits, so skip candidates that contain one.
	for _, m := range phoneRegexp.FindAllString(text, -1) {
		if orderIDRegexp.MatchString(m) {
			continue
		}
		entities[SlotPhone] = m
		break
	}

	return entities
}
