package item

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/content/domain/target"
	"github.com/tanzim-io/tanzim/pkg/serrors"
)

// Kind classifies a distributable content item.
type Kind string

const (
	KindBulletin Kind = "bulletin"
	KindSurvey   Kind = "survey"
	KindPoll     Kind = "poll"
	KindPlan     Kind = "subscription_plan"
	KindReport   Kind = "report"
)

func NewKind(k string) (Kind, error) {
	kind := Kind(k)
	if !kind.IsValid() {
		return "", errors.New("invalid content kind")
	}
	return kind, nil
}

func (k Kind) IsValid() bool {
	switch k {
	case KindBulletin, KindSurvey, KindPoll, KindPlan, KindReport:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// Reviewable reports whether items of this kind pass through an approval
// workflow before general visibility.
func (k Kind) Reviewable() bool {
	return k == KindPlan
}

func Kinds() []Kind {
	return []Kind{KindBulletin, KindSurvey, KindPoll, KindPlan, KindReport}
}

var ErrNotFound = serrors.NewError("CONTENT_NOT_FOUND", "content item not found", "")

// Item is a distributable content item. Visibility is decided entirely by
// Target plus, for reviewable kinds, the approval state.
type Item struct {
	ID        uuid.UUID
	Kind      Kind
	Title     string
	Body      string
	CreatorID uuid.UUID
	Approved  bool
	Target    target.Spec
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i *Item) Validate() error {
	if !i.Kind.IsValid() {
		return errors.New("invalid content kind")
	}
	if i.Title == "" {
		return errors.New("title is required")
	}
	if i.CreatorID == uuid.Nil {
		return errors.New("creator is required")
	}
	if i.Target.IsEmpty() {
		return target.ErrEmptyTarget
	}
	return nil
}
