package submitapplication

import (
	"context"

	createapplicationrecord "recruitment-portal/internal/workers/application/create-application-record"
	validateapplicationdata "recruitment-portal/internal/workers/application/validate-application-data"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Output struct {
	ApplicationID string `json:"applicationId"`
	Timestamp     string `json:"timestamp"`
}

type ApplicationValidator interface {
	Execute(ctx context.Context, input *validateapplicationdata.Input) (*validateapplicationdata.Output, error)
}

type RecordCreator interface {
	Execute(ctx context.Context, input *createapplicationrecord.Input) (*createapplicationrecord.Output, error)
}
