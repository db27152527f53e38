package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/query"
	"github.com/devtrail/bootcamp-service/internal/repositories"
	"github.com/devtrail/bootcamp-service/internal/validator"
)

// fakeRepository is an in-memory Repository for service tests. List
// methods ignore shaping and return everything in insertion order.
type fakeRepository struct {
	bootcamps *fakeBootcampRepo
	courses   *fakeCourseRepo
	reviews   *fakeReviewRepo
	users     *fakeUserRepo
}

func newFakeRepository() *fakeRepository {
	r := &fakeRepository{
		bootcamps: &fakeBootcampRepo{items: map[uint]*models.Bootcamp{}},
		courses:   &fakeCourseRepo{items: map[uint]*models.Course{}},
		reviews:   &fakeReviewRepo{items: map[uint]*models.Review{}},
		users:     &fakeUserRepo{items: map[uint]*models.User{}},
	}
	return r
}

func (r *fakeRepository) Bootcamp() repositories.BootcampRepository { return r.bootcamps }
func (r *fakeRepository) Course() repositories.CourseRepository     { return r.courses }
func (r *fakeRepository) Review() repositories.ReviewRepository     { return r.reviews }
func (r *fakeRepository) User() repositories.UserRepository         { return r.users }

func (r *fakeRepository) WithTransaction(_ context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}
func (r *fakeRepository) Ping(context.Context) error { return nil }
func (r *fakeRepository) Close() error               { return nil }

type fakeBootcampRepo struct {
	items  map[uint]*models.Bootcamp
	nextID uint
}

func (f *fakeBootcampRepo) Create(_ context.Context, b *models.Bootcamp) error {
	for _, existing := range f.items {
		if existing.Name == b.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Now()
	f.items[b.ID] = b
	return nil
}

func (f *fakeBootcampRepo) GetByID(_ context.Context, id uint) (*models.Bootcamp, error) {
	b, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBootcampRepo) List(_ context.Context, _ query.Query) ([]*models.Bootcamp, int64, error) {
	out := make([]*models.Bootcamp, 0, len(f.items))
	for _, b := range f.items {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBootcampRepo) ListByZipcode(_ context.Context, zipcode string) ([]*models.Bootcamp, error) {
	var out []*models.Bootcamp
	for _, b := range f.items {
		if b.Zipcode == zipcode {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBootcampRepo) CountByOwner(_ context.Context, userID uint) (int64, error) {
	var n int64
	for _, b := range f.items {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeBootcampRepo) Update(_ context.Context, b *models.Bootcamp) error {
	if _, ok := f.items[b.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[b.ID] = b
	return nil
}

func (f *fakeBootcampRepo) UpdatePhoto(_ context.Context, id uint, filename string) error {
	b, ok := f.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.Photo = filename
	return nil
}

func (f *fakeBootcampRepo) UpdateAverageCost(_ context.Context, id uint, avg *float64) error {
	b, ok := f.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.AverageCost = avg
	return nil
}

func (f *fakeBootcampRepo) UpdateAverageRating(_ context.Context, id uint, avg *float64) error {
	b, ok := f.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.AverageRating = avg
	return nil
}

func (f *fakeBootcampRepo) Delete(_ context.Context, id uint) error {
	delete(f.items, id)
	return nil
}

type fakeCourseRepo struct {
	items  map[uint]*models.Course
	nextID uint
}

func (f *fakeCourseRepo) Create(_ context.Context, c *models.Course) error {
	f.nextID++
	c.ID = f.nextID
	f.items[c.ID] = c
	return nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id uint) (*models.Course, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCourseRepo) List(_ context.Context, _ query.Query) ([]*models.Course, int64, error) {
	out := make([]*models.Course, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCourseRepo) ListByBootcamp(_ context.Context, bootcampID uint) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range f.items {
		if c.BootcampID == bootcampID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) AverageTuition(_ context.Context, bootcampID uint) (*float64, error) {
	var sum float64
	var n int
	for _, c := range f.items {
		if c.BootcampID == bootcampID {
			sum += c.Tuition
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}

func (f *fakeCourseRepo) Update(_ context.Context, c *models.Course) error {
	if _, ok := f.items[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[c.ID] = c
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id uint) error {
	delete(f.items, id)
	return nil
}

func (f *fakeCourseRepo) DeleteByBootcamp(_ context.Context, bootcampID uint) error {
	for id, c := range f.items {
		if c.BootcampID == bootcampID {
			delete(f.items, id)
		}
	}
	return nil
}

type fakeReviewRepo struct {
	items  map[uint]*models.Review
	nextID uint
}

func (f *fakeReviewRepo) Create(_ context.Context, r *models.Review) error {
	for _, existing := range f.items {
		if existing.BootcampID == r.BootcampID && existing.UserID == r.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	r.ID = f.nextID
	f.items[r.ID] = r
	return nil
}

func (f *fakeReviewRepo) GetByID(_ context.Context, id uint) (*models.Review, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReviewRepo) List(_ context.Context, _ query.Query) ([]*models.Review, int64, error) {
	out := make([]*models.Review, 0, len(f.items))
	for _, r := range f.items {
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeReviewRepo) ListByBootcamp(_ context.Context, bootcampID uint) ([]*models.Review, error) {
	var out []*models.Review
	for _, r := range f.items {
		if r.BootcampID == bootcampID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) AverageRating(_ context.Context, bootcampID uint) (*float64, error) {
	var sum float64
	var n int
	for _, r := range f.items {
		if r.BootcampID == bootcampID {
			sum += float64(r.Rating)
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}

func (f *fakeReviewRepo) Update(_ context.Context, r *models.Review) error {
	if _, ok := f.items[r.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[r.ID] = r
	return nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id uint) error {
	delete(f.items, id)
	return nil
}

func (f *fakeReviewRepo) DeleteByBootcamp(_ context.Context, bootcampID uint) error {
	for id, r := range f.items {
		if r.BootcampID == bootcampID {
			delete(f.items, id)
		}
	}
	return nil
}

type fakeUserRepo struct {
	items  map[uint]*models.User
	nextID uint
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range f.items {
		if strings.EqualFold(existing.Email, u.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.items[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.items {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByResetToken(_ context.Context, tokenHash string, now time.Time) (*models.User, error) {
	for _, u := range f.items {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == tokenHash &&
			u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(_ context.Context, _ query.Query) ([]*models.User, int64, error) {
	out := make([]*models.User, 0, len(f.items))
	for _, u := range f.items {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	if _, ok := f.items[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *u
	f.items[u.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uint) error {
	delete(f.items, id)
	return nil
}

// fakeFileStore records saved and removed files in memory.
type fakeFileStore struct {
	saved   []string
	removed []string
}

func (f *fakeFileStore) Save(_ context.Context, name string, _ io.Reader) (string, error) {
	f.saved = append(f.saved, name)
	return name, nil
}

func (f *fakeFileStore) Remove(_ context.Context, name string) error {
	f.removed = append(f.removed, name)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testValidator() *validator.Validator {
	return validator.New()
}
