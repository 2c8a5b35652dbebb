package market

import (
	"context"
	"encoding/json"
	"fmt"
)

// ReportStore publishes finished analyses, e.g. to an S3-compatible bucket.
type ReportStore interface {
	PutJSON(ctx context.Context, key string, body []byte) (string, error)
}

func reportKey(id string) string {
	return fmt.Sprintf("reports/market-analyses/%s.json", id)
}

func exportReport(ctx context.Context, store ReportStore, a *MarketAnalysis) (string, error) {
	body, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", err
	}
	return store.PutJSON(ctx, reportKey(a.ID), body)
}
