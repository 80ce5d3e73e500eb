// Package dm defines the direct-message event accepted by the webhook and the
// row it becomes once stored.
//
// An Event is the decoded webhook body as sent by the automation pipeline.
// Event.Validate checks that the required fields are present, and
// Event.Record turns a valid event into the Record handed to a store. The
// store answers with a Row, which is echoed back to the caller.
package dm
