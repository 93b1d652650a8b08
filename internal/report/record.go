package report

// Record is the immutable, finalized report payload: the system's single
// externally meaningful artifact. The JSON field names are the wire contract
// consumed by the export file.
type Record struct {
	ReportID        string          `json:"report_id"`
	Timestamp       string          `json:"timestamp"`
	UserID          string          `json:"user_id"`
	ReportDetails   Details         `json:"report_details"`
	Photos          []RecordPhoto   `json:"photos"`
	Geo             Geo             `json:"geo"`
	DeviceInfo      DeviceInfo      `json:"device_info"`
	ValidationFlags ValidationFlags `json:"validation_flags"`
	UIFlow          UIFlow          `json:"ui_flow"`
	BackendFlags    BackendFlags    `json:"backend_flags"`
}

// Details holds the rider-entered report fields.
type Details struct {
	Category     string  `json:"category"`
	TrainLine    string  `json:"train_line"`
	Station      string  `json:"station"`
	Description  string  `json:"description"`
	SeverityHint *string `json:"severity_hint"`
}

// RecordPhoto is a photo entry in the record, with its computed metadata.
type RecordPhoto struct {
	ID       string        `json:"id"`
	Source   string        `json:"source"`
	URL      string        `json:"url"`
	Metadata PhotoMetadata `json:"metadata"`
}

// PhotoMetadata describes a photo's dimensions and approximate size.
type PhotoMetadata struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	SizeKB int    `json:"size_kb"`
}

// Geo is the report's location; the fallback coordinate is used when no fix
// was acquired.
type Geo struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	AccuracyM float64 `json:"accuracy_m"`
}

// DeviceInfo identifies the submitting device.
type DeviceInfo struct {
	OS          string `json:"os"`
	AppVersion  string `json:"app_version"`
	DeviceModel string `json:"device_model"`
}

// ValidationFlags restate the draft's validity sub-checks; for a record built
// from a valid draft every flag is true.
type ValidationFlags struct {
	HasMinimumPhoto   bool `json:"has_minimum_photo"`
	HasValidCategory  bool `json:"has_valid_category"`
	HasValidTrainLine bool `json:"has_valid_train_line"`
	HasValidStation   bool `json:"has_valid_station"`
	HasDescription    bool `json:"has_description"`
}

// PhotoCaptureFlow summarizes the photo requirements and the draft's count.
type PhotoCaptureFlow struct {
	MinRequired  int `json:"min_required"`
	MaxAllowed   int `json:"max_allowed"`
	CurrentCount int `json:"current_count"`
}

// CategoryExclusivity mirrors the single-select category as two flags.
type CategoryExclusivity struct {
	Safety        bool `json:"safety"`
	Accessibility bool `json:"accessibility"`
}

// UIFlow captures the state of the submission flow at build time.
type UIFlow struct {
	PhotoCaptureFlow    PhotoCaptureFlow    `json:"photo_capture_flow"`
	CategoryExclusivity CategoryExclusivity `json:"category_exclusivity"`
	ReviewStepCompleted bool                `json:"review_step_completed"`
	SubmissionStatus    string              `json:"submission_status"`
	ConfirmationMessage string              `json:"confirmation_message"`
}

// BackendFlags are placeholders for processing a future backend would do;
// all false at submission time.
type BackendFlags struct {
	IsStructured       bool `json:"is_structured"`
	AISummaryGenerated bool `json:"ai_summary_generated"`
	EmbeddingCreated   bool `json:"embedding_created"`
	DuplicateChecked   bool `json:"duplicate_checked"`
	SeverityScored     bool `json:"severity_scored"`
}
