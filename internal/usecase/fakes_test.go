package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"truckhub/internal/domain/entity"
	"truckhub/internal/domain/repository"
	"truckhub/internal/domain/service"
	"truckhub/pkg/errors"
)

type memorySnapshotStore struct {
	mu      sync.Mutex
	states  map[string][]byte
	saveErr error
	saves   int
}

func newMemorySnapshotStore() *memorySnapshotStore {
	return &memorySnapshotStore{states: map[string][]byte{}}
}

func (s *memorySnapshotStore) Save(ctx context.Context, key string, state *entity.WizardState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.states[key] = raw
	s.saves++
	return nil
}

func (s *memorySnapshotStore) Load(ctx context.Context, key string) (*entity.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.states[key]
	if !ok {
		return nil, repository.ErrSnapshotNotFound
	}
	var state entity.WizardState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *memorySnapshotStore) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	return nil
}

func (s *memorySnapshotStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.states[key]
	return ok
}

type memoryListingRepository struct {
	mu        sync.Mutex
	listings  map[string]*entity.Listing
	nextID    int
	createErr error
	updateErr error
}

func newMemoryListingRepository() *memoryListingRepository {
	return &memoryListingRepository{listings: map[string]*entity.Listing{}}
}

func (r *memoryListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if listing.ID == "" {
		r.nextID++
		listing.ID = fmt.Sprintf("listing-%d", r.nextID)
	}
	copied := *listing
	r.listings[listing.ID] = &copied
	return nil
}

func (r *memoryListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	copied := *listing
	return &copied, nil
}

func (r *memoryListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.listings[listing.ID]; !ok {
		return errors.NotFound("Listing", nil)
	}
	copied := *listing
	r.listings[listing.ID] = &copied
	return nil
}

func (r *memoryListingRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listings, id)
	return nil
}

func (r *memoryListingRepository) ListBySellerID(ctx context.Context, sellerID, status string, limit, offset int) ([]*entity.Listing, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Listing
	for i := 1; i <= r.nextID; i++ {
		listing, ok := r.listings[fmt.Sprintf("listing-%d", i)]
		if !ok || listing.SellerID != sellerID {
			continue
		}
		if status != "" && listing.Status != status {
			continue
		}
		copied := *listing
		matched = append(matched, &copied)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return []*entity.Listing{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *memoryListingRepository) ListPendingPaymentBefore(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Listing
	for _, listing := range r.listings {
		if listing.Status != entity.ListingStatusPendingPayment || listing.CheckoutExpiresAt == nil {
			continue
		}
		if listing.CheckoutExpiresAt.After(cutoff) {
			continue
		}
		copied := *listing
		matched = append(matched, &copied)
	}
	return matched, nil
}

func (r *memoryListingRepository) get(id string) *entity.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listings[id]
}

func (r *memoryListingRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listings)
}

type fakeCheckout struct {
	requests []service.CheckoutRequest
	err      error
}

func (f *fakeCheckout) CreateCheckout(ctx context.Context, req service.CheckoutRequest) (*service.CheckoutSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	return &service.CheckoutSession{
		ID:     "cs_" + req.ReferenceID,
		URL:    "https://checkout.example.com/" + req.ReferenceID,
		Status: service.CheckoutStatusPending,
	}, nil
}

func (f *fakeCheckout) ParseWebhook(ctx context.Context, payload []byte, signature string) (*service.CheckoutEvent, error) {
	var event service.CheckoutEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

type fakeFileService struct {
	uploaded []string
	deleted  []string
	err      error
}

func (f *fakeFileService) UploadFile(ctx context.Context, file io.Reader, fileType, folder string, isPublic bool) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	url := fmt.Sprintf("https://storage.googleapis.com/bucket/public/%s/%d", strings.Trim(folder, "/"), len(f.uploaded)+1)
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeFileService) DeleteFile(ctx context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

func (f *fakeFileService) Close() error {
	return nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	events   []ListingEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	if event, ok := payload.(ListingEvent); ok {
		p.events = append(p.events, event)
	}
	return nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	types []string
	users []string
}

func (n *recordingNotifier) NotifyUser(userID string, messageType string, data interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
	n.types = append(n.types, messageType)
	return nil
}

type countingMetrics struct {
	mu        sync.Mutex
	submits   map[string]int
	failures  int
	published int
	checkouts map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{submits: map[string]int{}, checkouts: map[string]int{}}
}

func (m *countingMetrics) ObserveSubmit(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submits[outcome]++
}

func (m *countingMetrics) ObserveValidationFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

func (m *countingMetrics) ObservePublished(mode string, paid bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published++
}

func (m *countingMetrics) ObserveCheckout(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkouts[status]++
}

func validRentFields() map[string]interface{} {
	return map[string]interface{}{
		"listing_mode":          "rent",
		"asset_category":        "food_truck",
		"title":                 "Food Truck for Rent",
		"short_description":     "Fully equipped kitchen",
		"description":           strings.Repeat("a", 60),
		"public_location_label": "Austin, TX",
		"zip_code":              "78701",
		"daily_price":           100,
		"pickup_enabled":        true,
	}
}

type memoryMediaUploads struct {
	mu      sync.Mutex
	uploads map[string]*entity.MediaUpload
}

func newMemoryMediaUploads() *memoryMediaUploads {
	return &memoryMediaUploads{uploads: map[string]*entity.MediaUpload{}}
}

func (r *memoryMediaUploads) Create(ctx context.Context, upload *entity.MediaUpload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *upload
	r.uploads[upload.URL] = &copied
	return nil
}

func (r *memoryMediaUploads) GetByURL(ctx context.Context, url string) (*entity.MediaUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	upload, ok := r.uploads[url]
	if !ok {
		return nil, errors.NotFound("Media upload", nil)
	}
	return upload, nil
}

func (r *memoryMediaUploads) ListBySession(ctx context.Context, sellerID, sessionKey string) ([]*entity.MediaUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.MediaUpload
	for _, upload := range r.uploads {
		if upload.SellerID == sellerID && upload.SessionKey == sessionKey {
			matched = append(matched, upload)
		}
	}
	return matched, nil
}

func (r *memoryMediaUploads) DeleteByURL(ctx context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.uploads[url]; !ok {
		return errors.NotFound("Media upload", nil)
	}
	delete(r.uploads, url)
	return nil
}

func (r *memoryMediaUploads) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.uploads)
}
