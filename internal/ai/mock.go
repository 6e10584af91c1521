package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/resourceboard/backend/internal/utils"
)

// MockSummarizer produces deterministic canned insights keyed on the payload
// hash, so the same schedule always yields the same text.
type MockSummarizer struct {
	ModelVersion string
}

var mockInsights = []string{
	"- Workload is unevenly distributed; consider shifting one major ticket to a lighter developer.\n- No blocking risks detected this week.",
	"- Several developers carry stacked major tickets; watch for overbooking mid-week.\n- Upcoming unavailability overlaps active work; replan the affected tickets.",
	"- Utilization looks healthy overall.\n- A few bug tickets could be batched to free up a full day.",
}

func (m MockSummarizer) AnalyzeSchedule(ctx context.Context, payload SchedulePayload) (string, error) {
	b, _ := json.Marshal(payload)
	h := utils.HashStringToUint64(string(b))
	insight := mockInsights[int(h%uint64(len(mockInsights)))]
	return fmt.Sprintf("Schedule analysis (%s):\n%s", m.ModelVersion, insight), nil
}
