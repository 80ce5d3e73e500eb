// Package webhook implements the HTTP endpoint that receives direct-message
// events and persists them.
//
// An automation platform (Make.com, Zapier, n8n) forwards each Instagram or
// Facebook DM as a JSON POST. The server checks the shared secret, validates
// the payload, normalizes the timestamp and inserts exactly one row with
// status "new".
//
// # Request Flow
//
//  1. OPTIONS on the webhook path answers the CORS preflight with "ok"
//  2. x-webhook-secret compared in constant time (401 on mismatch)
//  3. Body size checked (413 if too large)
//  4. Body decoded as JSON (500 if malformed)
//  5. Required fields checked (400 listing all five)
//  6. Platform checked against webhook.allowed_platforms, when set (400)
//  7. Timestamp normalized to UTC milliseconds (400 if unparseable)
//  8. Row inserted (500 "Failed to save DM" on datastore error)
//  9. 200 with the stored row
//
// When no secret is configured every caller is accepted and a warning is
// logged at startup.
//
// Every response carries the fixed CORS headers. Request logs never include
// the body; accepted DMs are logged with a BLAKE3 fingerprint of the payload.
//
// # Example Usage
//
//	cfg, err := config.Load("dmhook.yaml")
//	if err != nil {
//		return err
//	}
//	st, err := storage.Open(ctx, cfg.Store)
//	if err != nil {
//		return err
//	}
//	server := webhook.New(cfg, st, log.WithComponent("webhook"))
//	if err := server.Start(ctx); err != nil {
//		return err
//	}
package webhook
