package interactionController

import (
	"context"
	"testing"

	. "lectern/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// Validation rejects bad input before any repository or service is touched,
// so a zero-value controller is enough for these paths.
func TestInteractionController_Record_Validation(t *testing.T) {
	controller := &InteractionController{}
	user := &User{}
	user.ID = uuid.New()

	t.Run("unknown interaction type", func(t *testing.T) {
		_, err := controller.Record(context.Background(), user, RecordInteractionRequest{
			CourseID: uuid.New().String(),
			Type:     "ENROLL",
		})

		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("empty type", func(t *testing.T) {
		_, err := controller.Record(context.Background(), user, RecordInteractionRequest{
			CourseID: uuid.New().String(),
		})

		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("malformed course id", func(t *testing.T) {
		_, err := controller.Record(context.Background(), user, RecordInteractionRequest{
			CourseID: "not-a-uuid",
			Type:     "VIEW",
		})

		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("negative weight", func(t *testing.T) {
		weight := -1.5
		_, err := controller.Record(context.Background(), user, RecordInteractionRequest{
			CourseID: uuid.New().String(),
			Type:     "VIEW",
			Weight:   &weight,
		})

		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}
