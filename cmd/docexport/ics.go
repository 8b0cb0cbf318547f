package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gompdf/docexport/pkg/model"
)

func (c *cli) newICSCmd() *cobra.Command {
	var input, output, eventType, email string

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export calendar events as iCalendar",
		Long: `Load calendar events from a JSON or YAML list (or an object with an "events"
key), keep those matching the filters and write an .ics file.`,
		Example: `  docexport ics --input events.yaml
  docexport ics -i events.json --type meeting --email ana@example.com -o meetings.ics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := model.EventFilter{Type: model.EventType(eventType), Email: email}
			switch filter.Type {
			case "", model.EventTypeEvent, model.EventTypeMeeting:
			default:
				return fmt.Errorf("invalid --type %q: expected event or meeting", eventType)
			}

			events, err := c.exporter.LoadEvents(cmd.Context(), input)
			if err != nil {
				return err
			}
			selected := model.FilterEvents(events, filter)

			data, err := c.exporter.ExportCalendarBytes(selected)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, output, data); err != nil {
				return fmt.Errorf("failed to write calendar: %w", err)
			}

			c.logger.Info("exported calendar",
				"input", input,
				"output", output,
				"events", len(selected),
				"skipped", len(events)-len(selected))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "events file, URL or data URL (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "calendar.ics", "output path, - for stdout")
	cmd.Flags().StringVar(&eventType, "type", "", "only export events of this type: event|meeting")
	cmd.Flags().StringVar(&email, "email", "", "only export events owned by this address")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
