// Package models defines the survey data entities persisted locally and
// synced with the remote store.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the report lifecycle state. Transitions move forward through
// the declared order during normal operation; the core does not enforce
// this (the UI only offers valid next steps).
type Status string

const (
	StatusEnCampo          Status = "en_campo"
	StatusEnRevision       Status = "en_revision"
	StatusListoParaGenerar Status = "listo_para_generar"
	StatusGenerado         Status = "generado"
)

type InstallationType string

const (
	InstallationFachadaMastil InstallationType = "fachada_mastil"
	InstallationPoste         InstallationType = "poste"
	InstallationTorre         InstallationType = "torre"
)

type SecurityLevel string

const (
	SecurityAlto  SecurityLevel = "alto"
	SecurityMedio SecurityLevel = "medio"
	SecurityBajo  SecurityLevel = "bajo"
)

type ContractComponent string

const (
	ComponentValleSeguro  ContractComponent = "valle_seguro"
	ComponentLPR          ContractComponent = "lpr"
	ComponentCotejoFacial ContractComponent = "cotejo_facial"
)

// AddressData locates the surveyed site. Populated from the sites catalog
// when the worker picks a known site.
type AddressData struct {
	PMNumber    string  `json:"pm_number"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	SiteName    string  `json:"site_name"`
	FullAddress string  `json:"full_address"`
	SiteID      string  `json:"site_id,omitempty"`
	SiteType    string  `json:"site_type,omitempty"`
	Distrito    string  `json:"distrito,omitempty"`
	Municipio   string  `json:"municipio,omitempty"`
}

type ConnectivityData struct {
	HasLineOfSight     bool   `json:"has_line_of_sight"`
	TransmissionMedium string `json:"transmission_medium"`
	CablingType        string `json:"cabling_type"`
}

type HardwareInventory struct {
	AdditionalBoxes    int `json:"additional_boxes"`
	CamerasMultisensor int `json:"cameras_multisensor"`
	CamerasPTZ         int `json:"cameras_ptz"`
	CamerasFixed       int `json:"cameras_fixed"`
}

type PoleInfrastructure struct {
	AerialMeters       float64 `json:"aerial_meters"`
	GrassMeters        float64 `json:"grass_meters"`
	AsphaltMeters      float64 `json:"asphalt_meters"`
	AdoquinMeters      float64 `json:"adoquin_meters"`
	ConcreteMeters     float64 `json:"concrete_meters"`
	FillMeters         float64 `json:"fill_meters"`
	OtherSurfaceMeters float64 `json:"other_surface_meters"`
}

type FacadeInfrastructure struct {
	Description string `json:"description"`
}

type InfrastructureDetailItem struct {
	PipeType string `json:"pipe_type"`
	Height   string `json:"height"`
	Other    string `json:"other"`
}

type CameraPointDetail struct {
	InfrastructureDetailItem
	Material      string `json:"material"`
	OtherMaterial string `json:"other_material"`
}

type InfrastructureDetails struct {
	ServiceEntrance InfrastructureDetailItem `json:"service_entrance"`
	CameraPoint     CameraPointDetail        `json:"camera_point"`
}

// Report is the survey entity being authored and synced. Nested value
// objects have no identity of their own and are always rewritten wholesale
// with their parent.
//
// The four *_url image fields hold either an inline data URL (base64) or a
// blob-store reference URL, depending on which store last touched the
// report: the local store keeps reports self-contained, the remote store
// keeps them reference-only.
type Report struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Group     string `json:"group"`
	Status    Status `json:"status"`
	CreatedAt int64  `json:"created_at"`
	// UpdatedAt is milliseconds since epoch and the sole ordering key for
	// "most recent" queries. Bumped on every mutation.
	UpdatedAt int64 `json:"updated_at"`

	InstallationType []InstallationType `json:"installation_type"`
	Date             string             `json:"date"`
	Address          AddressData        `json:"address"`

	Observations []string `json:"observations"`

	SecurityLevel     SecurityLevel     `json:"security_level"`
	ContractComponent ContractComponent `json:"contract_component"`

	Connectivity ConnectivityData  `json:"connectivity"`
	Hardware     HardwareInventory `json:"hardware"`

	MapImageURL             string `json:"map_image_url,omitempty"`
	EditedMapImageURL       string `json:"edited_map_image_url,omitempty"`
	CameraViewPhotoURL      string `json:"camera_view_photo_url,omitempty"`
	ServiceEntrancePhotoURL string `json:"service_entrance_photo_url,omitempty"`

	PoleInfrastructure   PoleInfrastructure    `json:"pole_infrastructure"`
	FacadeInfrastructure FacadeInfrastructure  `json:"facade_infrastructure"`
	InfrastructureDetail InfrastructureDetails `json:"infrastructure_details"`

	OwnerName         string `json:"owner_name"`
	FinalObservations string `json:"final_observations"`

	PDFURL string `json:"pdf_url,omitempty"`
}

// ImageField pairs one of the four designated image fields with its wire
// name, so the asset pipeline can rewrite values in place.
type ImageField struct {
	Name  string
	Value *string
}

// ImageFields returns the designated image fields in a fixed order.
func (r *Report) ImageFields() []ImageField {
	return []ImageField{
		{Name: "map_image_url", Value: &r.MapImageURL},
		{Name: "edited_map_image_url", Value: &r.EditedMapImageURL},
		{Name: "camera_view_photo_url", Value: &r.CameraViewPhotoURL},
		{Name: "service_entrance_photo_url", Value: &r.ServiceEntrancePhotoURL},
	}
}

// Touch bumps the modification timestamp.
func (r *Report) Touch() {
	r.UpdatedAt = time.Now().UnixMilli()
}

// Clone returns a deep-enough copy: slices are duplicated, nested value
// structs copy by value. Used where one representation of the report must
// not leak into the other store's write path.
func (r *Report) Clone() *Report {
	out := *r
	out.InstallationType = append([]InstallationType(nil), r.InstallationType...)
	out.Observations = append([]string(nil), r.Observations...)
	return &out
}

// NewReport returns an empty draft owned by the given principal.
func NewReport(userID, group string) *Report {
	now := time.Now().UnixMilli()
	return &Report{
		ID:                uuid.NewString(),
		UserID:            userID,
		Group:             group,
		Status:            StatusEnCampo,
		CreatedAt:         now,
		UpdatedAt:         now,
		Date:              time.Now().Format("02/01/2006"),
		SecurityLevel:     SecurityMedio,
		ContractComponent: ComponentValleSeguro,
		Connectivity: ConnectivityData{
			TransmissionMedium: "fibra_optica",
			CablingType:        "aereo",
		},
	}
}
