package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ColorScheme is the named visual theme applied to a board's rendering.
type ColorScheme string

const (
	SchemePurple ColorScheme = "purple"
	SchemeTeal   ColorScheme = "teal"
	SchemePink   ColorScheme = "pink"
	SchemeAmber  ColorScheme = "amber"
	SchemeBlue   ColorScheme = "blue"
	SchemeGreen  ColorScheme = "green"

	// DefaultColorScheme is applied to newly created boards.
	DefaultColorScheme = SchemePurple
)

func (c ColorScheme) Valid() bool {
	switch c {
	case SchemePurple, SchemeTeal, SchemePink, SchemeAmber, SchemeBlue, SchemeGreen:
		return true
	}
	return false
}

// UI-enforced length caps, checked server-side before persisting.
const (
	MaxTitleLen       = 50
	MaxDescriptionLen = 200
)

// Board is a named 5x5 grid configuration owned by a user. Timestamps are
// milliseconds since epoch; CreatedAt is immutable after creation and
// UpdatedAt is refreshed on every persisted mutation.
type Board struct {
	ID             uuid.UUID                  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title          string                     `gorm:"not null" json:"title"`
	Description    string                     `json:"description"`
	CreatedAt      int64                      `gorm:"autoCreateTime:milli" json:"createdAt"`
	UpdatedAt      int64                      `gorm:"autoUpdateTime:milli" json:"updatedAt"`
	UserID         uuid.UUID                  `gorm:"type:uuid;not null;index" json:"userId"`
	ColorScheme    ColorScheme                `gorm:"not null;default:'purple'" json:"colorScheme"`
	HeaderImageURL *string                    `json:"headerImageUrl,omitempty"`
	FooterImageURL *string                    `json:"footerImageUrl,omitempty"`
	CenterImageURL *string                    `json:"centerImageUrl,omitempty"`
	Squares        datatypes.JSONSlice[Square] `gorm:"type:jsonb" json:"squares"`
	IsArchived     bool                       `gorm:"not null;default:false" json:"isArchived"`

	Owner User `gorm:"foreignKey:UserID" json:"-"`
}

// BoardPatch carries a partial board update. Nil fields are left untouched
// by the merge; a non-nil image pointer pointing at an empty string clears
// that slot.
type BoardPatch struct {
	Title          *string      `json:"title,omitempty"`
	Description    *string      `json:"description,omitempty"`
	ColorScheme    *ColorScheme `json:"colorScheme,omitempty"`
	HeaderImageURL *string      `json:"headerImageUrl,omitempty"`
	FooterImageURL *string      `json:"footerImageUrl,omitempty"`
	CenterImageURL *string      `json:"centerImageUrl,omitempty"`
	Squares        []Square     `json:"squares,omitempty"`
	IsArchived     *bool        `json:"isArchived,omitempty"`
}
