package models

// GeneratedReport is the companion artifact written when a report is
// finalized: a pointer to the rendered PDF plus generation metadata. The
// report itself is never deleted by finalization, only linked.
type GeneratedReport struct {
	ID          string `json:"id"`
	ReportID    string `json:"report_id"`
	PDFURL      string `json:"pdf_url"`
	GeneratedAt int64  `json:"generated_at"`
	GeneratedBy string `json:"generated_by"`
}
