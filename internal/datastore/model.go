// model.go this code defines the data model for the application
package datastore

import (
	"strings"
	"time"
)

// Satellite represents an imaging platform whose product prefix is used to
// derive mosaic product names. Looked up by its external satellite id,
// never mutated by query resolution.
type Satellite struct {
	ID            uint   `gorm:"primaryKey"`
	SatelliteID   string `gorm:"uniqueIndex;not null"` // external key, e.g. "LS7"
	Name          string
	ProductPrefix string // prefix prepended to the area id to form a product name
}

// Area represents a named geographic region available for analysis.
type Area struct {
	ID           uint   `gorm:"primaryKey"`
	AreaID       string `gorm:"uniqueIndex;not null"` // external key, e.g. "NT"
	Name         string
	LatitudeMin  float64
	LatitudeMax  float64
	LongitudeMin float64
	LongitudeMax float64
}

// Compositor is a selectable mosaic compositing method.
type Compositor struct {
	ID           uint   `gorm:"primaryKey"`
	CompositorID string `gorm:"uniqueIndex;not null"`
	Name         string
}

// AnimationType is a selectable animated product output.
type AnimationType struct {
	ID           uint   `gorm:"primaryKey"`
	TypeID       string `gorm:"uniqueIndex;not null"`
	Name         string
	DataVariable string // dataset variable rendered per animation frame
}

// ResultType describes how a mosaic result is displayed: which spectral
// bands map to the red, green and blue channels and how missing pixels
// are filled.
type ResultType struct {
	ID       uint   `gorm:"primaryKey"`
	ResultID string `gorm:"uniqueIndex;not null"`
	Name     string
	Red      string `gorm:"type:varchar(25)"`
	Green    string `gorm:"type:varchar(25)"`
	Blue     string `gorm:"type:varchar(25)"`
	Fill     string `gorm:"type:varchar(25);default:red"`
}

// Query holds the parameters of a mosaic analysis request. The thirteen
// columns tagged with idx_tasks_dedup form the task uniqueness tuple: two
// persisted tasks may never share all thirteen values.
type Query struct {
	QueryID     string `gorm:"type:varchar(36);uniqueIndex"` // public UUID assigned at creation
	UserID      string `gorm:"index"`
	Title       string `gorm:"uniqueIndex:idx_tasks_dedup"`
	Description string `gorm:"uniqueIndex:idx_tasks_dedup"`

	Platform string `gorm:"uniqueIndex:idx_tasks_dedup"` // satellite external id
	Product  string `gorm:"uniqueIndex:idx_tasks_dedup"` // derived product name, prefix + area id
	AreaID   string

	TimeStart time.Time `gorm:"uniqueIndex:idx_tasks_dedup"`
	TimeEnd   time.Time `gorm:"uniqueIndex:idx_tasks_dedup"`

	LatitudeMin  float64 `gorm:"uniqueIndex:idx_tasks_dedup"`
	LatitudeMax  float64 `gorm:"uniqueIndex:idx_tasks_dedup"`
	LongitudeMin float64 `gorm:"uniqueIndex:idx_tasks_dedup"`
	LongitudeMax float64 `gorm:"uniqueIndex:idx_tasks_dedup"`

	QueryTypeID       uint `gorm:"uniqueIndex:idx_tasks_dedup"` // ResultType reference
	AnimatedProductID uint `gorm:"uniqueIndex:idx_tasks_dedup"` // AnimationType reference
	CompositorID      uint `gorm:"uniqueIndex:idx_tasks_dedup"` // Compositor reference

	// Execution lifecycle, populated by processing
	ExecutionStart time.Time
	ExecutionEnd   time.Time
	Complete       bool
}

// ZippedMetadataFields lists the metadata columns stored as parallel
// comma-delimited sequences. The nth element of each sequence describes
// the nth acquisition.
var ZippedMetadataFields = []string{
	"acquisition_list",
	"clean_pixels_per_acquisition",
	"clean_pixel_percentages_per_acquisition",
	"satellite_list",
}

// Metadata holds per-acquisition statistics derived while processing a task.
type Metadata struct {
	AcquisitionList                     string `gorm:"type:text"`
	CleanPixelsPerAcquisition           string `gorm:"type:text"`
	CleanPixelPercentagesPerAcquisition string `gorm:"type:text"`
	SatelliteList                       string `gorm:"type:text"`
	CleanPixelCount                     int
	PixelCount                          int
}

// AcquisitionRows unzips the delimited metadata sequences into one row per
// acquisition, ordered as ZippedMetadataFields. Sequences shorter than the
// acquisition list are padded with empty strings.
func (m *Metadata) AcquisitionRows() [][]string {
	sequences := [][]string{
		splitSequence(m.AcquisitionList),
		splitSequence(m.CleanPixelsPerAcquisition),
		splitSequence(m.CleanPixelPercentagesPerAcquisition),
		splitSequence(m.SatelliteList),
	}

	rows := make([][]string, len(sequences[0]))
	for i := range rows {
		row := make([]string, len(sequences))
		for j, seq := range sequences {
			if i < len(seq) {
				row[j] = seq[i]
			}
		}
		rows[i] = row
	}
	return rows
}

// splitSequence splits a comma-delimited metadata sequence, treating an
// empty string as an empty sequence rather than one empty element.
func splitSequence(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// Result holds the output artifact locations produced by processing a task.
type Result struct {
	Status          string `gorm:"type:varchar(25);default:WAIT"`
	ScenesProcessed int
	TotalScenes     int

	ResultPath       string `gorm:"type:varchar(250)"`
	ResultFilledPath string `gorm:"type:varchar(250)"`
	AnimationPath    string `gorm:"type:varchar(250);default:None"`
	DataPath         string `gorm:"type:varchar(250)"`
	DataNetcdfPath   string `gorm:"type:varchar(250)"`
}

// Progress reports processing completion as a fraction of total scenes.
func (r *Result) Progress() float64 {
	if r.TotalScenes == 0 {
		return 0
	}
	return float64(r.ScenesProcessed) / float64(r.TotalScenes)
}

// Result status values for CustomMosaicTask processing.
const (
	StatusWait   = "WAIT"
	StatusRun    = "RUN"
	StatusOK     = "OK"
	StatusError  = "ERROR"
	StatusCancel = "CANCEL"
)

// CustomMosaicTask is the persisted mosaic analysis task. It composes the
// query parameters, derived metadata and output artifact locations into a
// single record; Metadata and Result fields stay at their zero values until
// external processing fills them in.
type CustomMosaicTask struct {
	ID uint `gorm:"primaryKey"`

	Query    Query    `gorm:"embedded"`
	Metadata Metadata `gorm:"embedded"`
	Result   Result   `gorm:"embedded"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
