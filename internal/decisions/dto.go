package decisions

import "time"

// AnalyzeResponse is the outward-facing envelope for one analysis.
type AnalyzeResponse struct {
	RobotMessage    string           `json:"robot_message"`
	Status          string           `json:"status"`
	Recommendations []Recommendation `json:"recommendations"`
	DecisionID      *string          `json:"decision_id"`
	Metadata        MetadataResponse `json:"metadata"`
}

// MetadataResponse carries per-call receipt metadata.
type MetadataResponse struct {
	ReceivedAt string `json:"received_at"`
	Length     int    `json:"length"`
}

// RouteRecordResponse is the outward-facing representation of a vault record.
type RouteRecordResponse struct {
	DecisionID      string           `json:"decision_id"`
	Prompt          string           `json:"prompt"`
	RobotMessage    string           `json:"robot_message"`
	Recommendations []Recommendation `json:"recommendations"`
	Metadata        map[string]any   `json:"metadata"`
	RecordType      string           `json:"record_type"`
	CreatedAt       time.Time        `json:"created_at"`
}

func toAnalyzeResponse(res Result) AnalyzeResponse {
	var decisionID *string
	if res.DecisionID != "" {
		id := res.DecisionID
		decisionID = &id
	}
	return AnalyzeResponse{
		RobotMessage:    res.RobotMessage,
		Status:          res.Status,
		Recommendations: res.Recommendations,
		DecisionID:      decisionID,
		Metadata: MetadataResponse{
			ReceivedAt: res.Metadata.ReceivedAt.Format(time.RFC3339),
			Length:     res.Metadata.Length,
		},
	}
}

func toRouteRecordResponse(route DecisionRoute) RouteRecordResponse {
	return RouteRecordResponse{
		DecisionID:      route.ID,
		Prompt:          route.Prompt,
		RobotMessage:    route.RobotMessage,
		Recommendations: route.Recommendations,
		Metadata:        route.Metadata,
		RecordType:      route.RecordType,
		CreatedAt:       route.CreatedAt,
	}
}
