package models

// AttachmentType classifies a file in a resident's archive
type AttachmentType string

const (
	AttachmentGeneral    AttachmentType = "כללי"
	AttachmentMedical    AttachmentType = "רפואי"
	AttachmentFunctional AttachmentType = "תפקודי"
)

// AttachmentTypes lists the fixed attachment categories
var AttachmentTypes = []AttachmentType{AttachmentGeneral, AttachmentMedical, AttachmentFunctional}

// Valid reports whether t is one of the known categories
func (t AttachmentType) Valid() bool {
	for _, known := range AttachmentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// FileAttachment represents an uploaded file owned by a resident.
// It is created and deleted only through resident updates.
type FileAttachment struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Type AttachmentType `json:"type"`
	URL  string         `json:"url"` // inline-encoded payload (data URL)
	Date string         `json:"date"`
}

// Resident represents a person under care, the primary clinical-record subject.
// Mutable fields carry no omitempty: the remote put is a field-level merge,
// and an omitted field cannot clear its previous remote value.
type Resident struct {
	ID                   string           `json:"id"` // immutable, assigned at creation
	TZ                   string           `json:"tz"` // national id
	FirstName            string           `json:"firstName"`
	LastName             string           `json:"lastName"`
	HouseName            string           `json:"houseName"`
	Description          string           `json:"description"`
	DOB                  string           `json:"dob"`
	EntryDate            string           `json:"entryDate"`
	Phone                string           `json:"phone"`
	Guardian             string           `json:"guardian"`
	RiskManagement       string           `json:"riskManagement"`
	PromotionPlan        string           `json:"promotionPlan"`
	Workplace            string           `json:"workplace"`
	MedicalInfo          string           `json:"medicalInfo"`
	RecommendedTreatment string           `json:"recommendedTreatment"`
	TariffCode           string           `json:"tariffCode"`
	FrameworkCode        string           `json:"frameworkCode"`
	Avatar               string           `json:"avatar"`
	Attachments          []FileAttachment `json:"attachments"`
}

// FullName returns the resident's display name
func (r *Resident) FullName() string {
	return r.FirstName + " " + r.LastName
}
