package cmd

import (
	"context"
	"fmt"

	"github.com/Affo25/imsdashboard/internal/core/events"
	"github.com/Affo25/imsdashboard/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event bus commands",
	Long:  `Publish account events through the audit log subscriber for debugging`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish a test account event",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{events.EventTypeUserRegistered, events.EventTypeUserLoggedIn},
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0])
	},
}

var (
	eventUserID int64
	eventEmail  string
	eventRole   string
)

func buildTestEvent(eventType string) (events.Event, error) {
	switch eventType {
	case events.EventTypeUserRegistered:
		return events.NewUserRegisteredEvent(eventUserID, eventEmail, eventRole), nil
	case events.EventTypeUserLoggedIn:
		return events.NewUserLoggedInEvent(eventUserID), nil
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
}

func publishTestEvent(ctx context.Context, eventType string) error {
	lg := logger.LoggerWrapper()

	event, err := buildTestEvent(eventType)
	if err != nil {
		return err
	}

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	if ctx == nil {
		ctx = context.Background()
	}
	if err := bus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	lg.Info("test event published", "event_type", event.EventType(), "event_id", event.EventID())
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventUserID, "user-id", 1, "user id carried by the event")
	publishEventCmd.Flags().StringVar(&eventEmail, "email", "test@example.com", "email carried by user.registered")
	publishEventCmd.Flags().StringVar(&eventRole, "role", "user", "role carried by user.registered")

	eventCmd.AddCommand(publishEventCmd)
}
