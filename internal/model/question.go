package model

import (
	"time"

	"github.com/lshigami/Linnet/internal/cefr"
	"gorm.io/gorm"
)

// Question skill categories.
const (
	SkillGrammar    = "grammar"
	SkillVocabulary = "vocabulary"
	SkillReading    = "reading"
	SkillListening  = "listening"
	SkillWriting    = "writing"
	SkillSpeaking   = "speaking"
)

// Question types.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeWriting        = "writing"
	TypeSpeaking       = "speaking"
)

type Question struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	Text          string  `json:"text" gorm:"type:text;not null"`
	OptionA       *string `json:"option_a,omitempty" gorm:"type:text"`
	OptionB       *string `json:"option_b,omitempty" gorm:"type:text"`
	OptionC       *string `json:"option_c,omitempty" gorm:"type:text"`
	OptionD       *string `json:"option_d,omitempty" gorm:"type:text"`
	CorrectAnswer string  `json:"-" gorm:"type:varchar(255)"`

	Category   string     `json:"category" gorm:"index;not null"`
	Difficulty cefr.Level `json:"difficulty" gorm:"type:varchar(4);default:'B1';index"`
	Type       string     `json:"type" gorm:"default:'multiple_choice'"`

	CompanyID *uint `json:"company_id,omitempty" gorm:"index"`
	Active    bool  `json:"active" gorm:"default:true"`

	// Cumulative response counters across all candidates, feeding the
	// calibration estimator.
	TimesAnswered int `json:"times_answered" gorm:"default:0"`
	TimesCorrect  int `json:"times_correct" gorm:"default:0"`

	// Calibration output. CalculatedDifficulty is on the 1-6 CEFR index
	// scale; the labeled Difficulty is never overwritten automatically.
	CalculatedDifficulty *float64   `json:"calculated_difficulty,omitempty"`
	CalibrationWarning   bool       `json:"calibration_warning" gorm:"default:false"`
	LastCalibrated       *time.Time `json:"last_calibrated,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
