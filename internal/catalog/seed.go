package catalog

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tempohub/tempohub-service/internal/models"
)

//go:embed seed_events.yaml
var seedEventsYAML []byte

type seedEvent struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	OffsetMS    int64    `yaml:"offset_ms"`
	Location    string   `yaml:"location"`
	ImageURL    string   `yaml:"image_url"`
	Tags        []string `yaml:"tags"`
	Attendees   int      `yaml:"attendees"`
}

// SeedEvents returns the launch catalog with dates relative to now.
func SeedEvents(now time.Time) ([]models.Event, error) {
	var seeds []seedEvent
	if err := yaml.Unmarshal(seedEventsYAML, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse seed events: %w", err)
	}

	events := make([]models.Event, 0, len(seeds))
	for _, s := range seeds {
		events = append(events, models.Event{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Date:        now.Add(time.Duration(s.OffsetMS) * time.Millisecond).UTC(),
			Location:    s.Location,
			ImageURL:    s.ImageURL,
			Tags:        s.Tags,
			Attendees:   s.Attendees,
		})
	}
	return events, nil
}
