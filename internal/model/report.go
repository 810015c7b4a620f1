package model

// StudentRecord is one student's row set exactly as extracted from the
// uploaded grade report. Both series are non-empty under the extraction
// contract; a withdrawn student arrives as attendances=[0], grades=[0].
type StudentRecord struct {
	Name        string    `json:"name"`
	Attendances []float64 `json:"attendances"`
	Grades      []float64 `json:"grades"`
}

// StudentSummary carries the per-student means derived from a StudentRecord.
type StudentSummary struct {
	Name           string  `json:"name"`
	MeanAttendance float64 `json:"mean_attendance"`
	MeanGrade      float64 `json:"mean_grade"`
}

// AnalysisResult is the response envelope: aggregated summaries alongside
// the extracted records untouched.
type AnalysisResult struct {
	Payload []StudentSummary `json:"payload"`
	RawData []StudentRecord  `json:"raw_data"`
}
