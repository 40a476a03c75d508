package submission

import (
	"errors"
)

// CreateSubmissionDTO represents the request payload for a new submission.
// websiteUrl, catatan and status are optional; the rest are required.
type CreateSubmissionDTO struct {
	Tarikh       string `json:"tarikh"`
	Bahagian     string `json:"bahagian"`
	NamaProjek   string `json:"namaProjek"`
	TujuanProjek string `json:"tujuanProjek"`
	WebsiteURL   string `json:"websiteUrl"`
	KutipanData  string `json:"kutipanData"`
	NamaPengawai string `json:"namaPengawai"`
	Email        string `json:"email"`
	Catatan      string `json:"catatan"`
	Status       string `json:"status"`
}

// MissingFields lists the required fields that are empty. Email format is not
// checked here; the portal validates it before submitting and the backend
// stores whatever string arrives.
func (dto CreateSubmissionDTO) MissingFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"tarikh", dto.Tarikh},
		{"bahagian", dto.Bahagian},
		{"namaProjek", dto.NamaProjek},
		{"tujuanProjek", dto.TujuanProjek},
		{"kutipanData", dto.KutipanData},
		{"namaPengawai", dto.NamaPengawai},
		{"email", dto.Email},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Validate validates the CreateSubmissionDTO.
func (dto CreateSubmissionDTO) Validate() error {
	if len(dto.MissingFields()) > 0 {
		return errors.New("missing required fields")
	}
	return nil
}

// ToSubmission builds the entity with defaulting applied: empty optional
// strings stay empty, an omitted status defaults to Pending and a provided
// one is echoed as-is.
func (dto CreateSubmissionDTO) ToSubmission() *Submission {
	status := dto.Status
	if status == "" {
		status = StatusPending
	}

	return &Submission{
		Tarikh:       dto.Tarikh,
		Bahagian:     dto.Bahagian,
		NamaProjek:   dto.NamaProjek,
		TujuanProjek: dto.TujuanProjek,
		WebsiteURL:   dto.WebsiteURL,
		KutipanData:  dto.KutipanData,
		NamaPengawai: dto.NamaPengawai,
		Email:        dto.Email,
		Catatan:      dto.Catatan,
		Status:       status,
	}
}

// UpdateStatusDTO represents the request for updating submission status.
type UpdateStatusDTO struct {
	Status string `json:"status"`
}

// Validate validates the UpdateStatusDTO. Only presence is enforced; the
// stored contract deliberately accepts any non-empty status string.
func (dto UpdateStatusDTO) Validate() error {
	if dto.Status == "" {
		return errors.New("status is required")
	}
	return nil
}
