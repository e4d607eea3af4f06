package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"truckhub/internal/domain/entity"
	"truckhub/internal/domain/repository"
	"truckhub/internal/domain/service"
	"truckhub/pkg/errors"
)

// ListingWizard owns one WizardState and is the only thing that mutates it.
// Every change is written to the snapshot store before the call returns.
// It is not safe for concurrent use; each request builds its own.
type ListingWizard struct {
	state     *entity.WizardState
	snapshots repository.DraftSnapshotStore
	now       func() time.Time
}

func NewListingWizard(state *entity.WizardState, snapshots repository.DraftSnapshotStore) *ListingWizard {
	if state.Draft == nil {
		state.Draft = entity.NewListingDraft()
	}
	return &ListingWizard{
		state:     state,
		snapshots: snapshots,
		now:       time.Now,
	}
}

func (w *ListingWizard) State() *entity.WizardState {
	return w.state
}

func (w *ListingWizard) Draft() *entity.ListingDraft {
	return w.state.Draft
}

func (w *ListingWizard) CurrentStep() entity.WizardStep {
	return w.state.CurrentStep()
}

func (w *ListingWizard) CurrentContent() entity.StepContent {
	return entity.ContentFor(w.CurrentStep(), w.state.Draft.ListingMode)
}

func (w *ListingWizard) CanAdvance() bool {
	if w.state.CurrentStepIndex >= entity.LastStepIndex() {
		return false
	}
	return service.CanAdvance(w.CurrentStep(), w.state.Draft)
}

func (w *ListingWizard) UpdateField(ctx context.Context, name string, value interface{}) error {
	return w.UpdateFields(ctx, map[string]interface{}{name: value})
}

// UpdateFields merges the given fields into the draft. Field names are the
// draft's JSON names. Validation rules are not applied here, only type and
// structural checks.
func (w *ListingWizard) UpdateFields(ctx context.Context, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return errors.BadRequest("No fields to update", nil)
	}

	merged, err := mergeDraftFields(w.state.Draft, fields)
	if err != nil {
		return err
	}

	if w.state.CurrentStepIndex > 0 && !merged.IsRent() && !merged.IsSale() {
		return errors.BadRequest("Listing type cannot be cleared after it has been chosen", nil)
	}

	w.state.Draft = merged
	return w.persist(ctx)
}

// Advance moves to the next step when the gate allows it. It reports whether
// the step changed; a rejected advance is not an error.
func (w *ListingWizard) Advance(ctx context.Context) (bool, error) {
	if !w.CanAdvance() {
		return false, nil
	}
	w.state.CurrentStepIndex++
	return true, w.persist(ctx)
}

func (w *ListingWizard) Retreat(ctx context.Context) (bool, error) {
	if w.state.CurrentStepIndex <= 0 {
		w.state.CurrentStepIndex = 0
		return false, nil
	}
	w.state.CurrentStepIndex--
	return true, w.persist(ctx)
}

func (w *ListingWizard) AddAddOn(ctx context.Context, addOn entity.AddOn) error {
	if err := w.state.Draft.AddAddOn(addOn); err != nil {
		return errors.BadRequest(err.Error(), err)
	}
	return w.persist(ctx)
}

func (w *ListingWizard) RemoveAddOn(ctx context.Context, index int) error {
	if err := w.state.Draft.RemoveAddOn(index); err != nil {
		return errors.BadRequest("Add-on not found", err)
	}
	return w.persist(ctx)
}

func (w *ListingWizard) AddMedia(ctx context.Context, url string) error {
	if err := w.state.Draft.AddMedia(url); err != nil {
		return errors.BadRequest(err.Error(), err)
	}
	return w.persist(ctx)
}

func (w *ListingWizard) RemoveMedia(ctx context.Context, index int) (string, error) {
	removed, err := w.state.Draft.RemoveMedia(index)
	if err != nil {
		return "", errors.BadRequest("Photo not found", err)
	}
	return removed, w.persist(ctx)
}

func (w *ListingWizard) MoveMediaToFront(ctx context.Context, index int) error {
	if err := w.state.Draft.MoveMediaToFront(index); err != nil {
		return errors.BadRequest("Photo not found", err)
	}
	return w.persist(ctx)
}

func (w *ListingWizard) persist(ctx context.Context) error {
	w.state.UpdatedAt = w.now().UTC()
	if err := w.snapshots.Save(ctx, snapshotKey(w.state.SellerID, w.state.SessionKey), w.state); err != nil {
		return errors.Internal("Failed to save draft", err)
	}
	return nil
}

const mediaField = "media"

func snapshotKey(sellerID, sessionKey string) string {
	return sellerID + ":" + sessionKey
}

// mergeDraftFields applies a partial update onto a copy of the draft.
func mergeDraftFields(d *entity.ListingDraft, fields map[string]interface{}) (*entity.ListingDraft, error) {
	current, err := json.Marshal(d)
	if err != nil {
		return nil, errors.Internal("Failed to encode draft", err)
	}
	values := map[string]interface{}{}
	if err := json.Unmarshal(current, &values); err != nil {
		return nil, errors.Internal("Failed to encode draft", err)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, known := values[name]; !known {
			return nil, errors.BadRequest(fmt.Sprintf("Unknown field: %s", name), nil)
		}
		if name == mediaField {
			// photos only enter the draft through UploadMedia, after the image filter
			return nil, errors.BadRequest("Photos are changed through the media endpoints", nil)
		}
		value := fields[name]
		if entity.NumericDraftFields[name] {
			normalized, err := numericFieldValue(value)
			if err != nil {
				return nil, errors.BadRequest(fmt.Sprintf("Field %s must be a number", name), err)
			}
			value = normalized
		}
		values[name] = value
	}

	patched, err := json.Marshal(values)
	if err != nil {
		return nil, errors.BadRequest("Invalid field value", err)
	}

	merged := entity.NewListingDraft()
	decoder := json.NewDecoder(bytes.NewReader(patched))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(merged); err != nil {
		return nil, errors.BadRequest(fieldTypeMessage(err), err)
	}
	normalizeDraft(merged)

	if merged.ListingMode != "" && !merged.IsRent() && !merged.IsSale() {
		return nil, errors.BadRequest("listing_mode must be one of: rent, sale", nil)
	}
	if len(merged.AddOns) > entity.MaxAddOns {
		return nil, errors.BadRequest(entity.ErrAddOnLimitReached.Error(), entity.ErrAddOnLimitReached)
	}

	return merged, nil
}

// numericFieldValue keeps numeric form fields as strings: "" when absent,
// otherwise something strconv.ParseFloat accepts.
func numericFieldValue(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return "", nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "", err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("%q is not a finite number", v)
		}
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case json.Number:
		if _, err := v.Float64(); err != nil {
			return "", err
		}
		return v.String(), nil
	}
	return "", fmt.Errorf("unsupported type %T", value)
}

func fieldTypeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("Field %s has the wrong type", typeErr.Field)
	}
	return "Invalid field value"
}

func normalizeDraft(d *entity.ListingDraft) {
	if d.Media == nil {
		d.Media = []string{}
	}
	if d.RequiredDocuments == nil {
		d.RequiredDocuments = []string{}
	}
	if d.AddOns == nil {
		d.AddOns = []entity.AddOn{}
	}
}
