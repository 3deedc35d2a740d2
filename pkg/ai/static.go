package ai

import (
	"context"
	"fmt"
	"strings"
)

// StaticDrafter is the fallback used when no API key is configured. It
// produces a canned formal paragraph from the raw notes so the form remains
// usable in demo deployments.
type StaticDrafter struct{}

// NewStaticDrafter constructs the fallback drafter.
func NewStaticDrafter() *StaticDrafter {
	return &StaticDrafter{}
}

// Draft renders the canned paragraph.
func (d *StaticDrafter) Draft(_ context.Context, input DraftInput) (DraftResult, error) {
	notes := strings.TrimSpace(input.Notes)
	location := input.Village
	if location == "" {
		location = "lokasi kegiatan"
	}

	text := fmt.Sprintf(
		"Pada hari ini, mahasiswa melaksanakan kegiatan: %s. Kegiatan berjalan dengan lancar di %s bersama warga setempat.",
		notes, location,
	)

	return DraftResult{Text: text, Model: "static"}, nil
}
