package content

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrInconsistentOrigin = errors.New("content origin: is_copy and source_content_id disagree")

// Origin says whether a ContentDefinition is an authored template or an assignment-private copy.
type Origin interface {
	isOrigin()
}

type Template struct{}

type Copy struct {
	SourceID uuid.UUID
}

func (Template) isOrigin() {}
func (Copy) isOrigin()     {}

type ContentDefinition struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerTeacherID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"owner_teacher_id"`
	IsCopy          bool             `gorm:"column:is_copy;not null;default:false;index" json:"is_copy"`
	SourceContentID *uuid.UUID       `gorm:"type:uuid;column:source_content_id;index" json:"source_content_id,omitempty"`
	Title           string           `gorm:"column:title;not null" json:"title"`
	Description     string           `gorm:"column:description;type:text" json:"description,omitempty"`
	IsActive        bool             `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Version         int              `gorm:"column:version;not null;default:1" json:"version"`
	Items           []ItemDefinition `gorm:"foreignKey:ContentID" json:"items,omitempty"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ContentDefinition) TableName() string { return "content_definition" }

// NewTemplate builds an active template owned by teacherID.
func NewTemplate(teacherID uuid.UUID, title string) *ContentDefinition {
	c := &ContentDefinition{ID: uuid.New(), OwnerTeacherID: teacherID, Title: title, IsActive: true, Version: 1}
	c.SetOrigin(Template{})
	return c
}

// NewCopy clones every field of src except identity and origin. Items are not cloned.
func NewCopy(src *ContentDefinition, ownerTeacherID uuid.UUID) *ContentDefinition {
	c := &ContentDefinition{
		ID:             uuid.New(),
		OwnerTeacherID: ownerTeacherID,
		Title:          src.Title,
		Description:    src.Description,
		IsActive:       src.IsActive,
		Version:        1,
	}
	c.SetOrigin(Copy{SourceID: src.ID})
	return c
}

func (c *ContentDefinition) Origin() Origin {
	if c.IsCopy && c.SourceContentID != nil {
		return Copy{SourceID: *c.SourceContentID}
	}
	return Template{}
}

func (c *ContentDefinition) SetOrigin(o Origin) {
	switch v := o.(type) {
	case Copy:
		src := v.SourceID
		c.IsCopy = true
		c.SourceContentID = &src
	default:
		c.IsCopy = false
		c.SourceContentID = nil
	}
}

func (c *ContentDefinition) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return c.checkOrigin()
}

func (c *ContentDefinition) BeforeSave(tx *gorm.DB) error {
	return c.checkOrigin()
}

func (c *ContentDefinition) checkOrigin() error {
	hasSource := c.SourceContentID != nil && *c.SourceContentID != uuid.Nil
	if c.IsCopy != hasSource {
		return ErrInconsistentOrigin
	}
	return nil
}

type ItemDefinition struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ContentID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_item_content_order,unique,priority:1" json:"content_id"`
	OrderIndex  int            `gorm:"column:order_index;not null;index:idx_item_content_order,unique,priority:2" json:"order_index"`
	Text        string         `gorm:"column:text;type:text;not null" json:"text"`
	Translation string         `gorm:"column:translation;type:text" json:"translation,omitempty"`
	AudioRef    *string        `gorm:"column:audio_ref" json:"audio_ref,omitempty"`
	Metadata    datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ItemDefinition) TableName() string { return "item_definition" }

func (i *ItemDefinition) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// CloneInto returns a copy of the item re-parented under contentID with a fresh id.
func (i ItemDefinition) CloneInto(contentID uuid.UUID) *ItemDefinition {
	out := &ItemDefinition{
		ID:          uuid.New(),
		ContentID:   contentID,
		OrderIndex:  i.OrderIndex,
		Text:        i.Text,
		Translation: i.Translation,
	}
	if i.AudioRef != nil {
		ref := *i.AudioRef
		out.AudioRef = &ref
	}
	if len(i.Metadata) > 0 {
		out.Metadata = append(datatypes.JSON(nil), i.Metadata...)
	}
	return out
}
