package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/quizo-app/quiz-service/internal/cache"
	"github.com/quizo-app/quiz-service/internal/models"
	"github.com/quizo-app/quiz-service/internal/repositories"
	"github.com/quizo-app/quiz-service/internal/utils"
	"gorm.io/gorm"
)

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeRepo is an in-memory Repository with the same contract as the
// PostgreSQL implementation, including ErrDuplicateAttempt on a second
// insert for the same (quiz, student) pair.
type fakeRepo struct {
	mu sync.Mutex

	quizzes    map[uint]*models.Quiz
	nextQuiz   uint
	nextQuest  uint
	attempts   []*models.QuizAttempt
	nextAttmpt uint
	users      map[string]*models.User

	// updateErr, when set, makes the next quiz update fail before
	// touching any state, mirroring a rolled-back transaction.
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		quizzes:    make(map[uint]*models.Quiz),
		users:      make(map[string]*models.User),
		nextQuiz:   1,
		nextQuest:  1,
		nextAttmpt: 1,
	}
}

func (r *fakeRepo) Quiz() repositories.QuizRepository       { return &fakeQuizRepo{r} }
func (r *fakeRepo) Attempt() repositories.AttemptRepository { return &fakeAttemptRepo{r} }
func (r *fakeRepo) User() repositories.UserRepository       { return &fakeUserRepo{r} }

func (r *fakeRepo) addUser(user *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

func (r *fakeRepo) addQuiz(quiz *models.Quiz) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	quiz.ID = r.nextQuiz
	r.nextQuiz++
	for i := range quiz.Questions {
		quiz.Questions[i].ID = r.nextQuest
		quiz.Questions[i].QuizID = quiz.ID
		r.nextQuest++
	}
	r.quizzes[quiz.ID] = quiz
	return quiz.ID
}

// ===== QUIZ REPOSITORY =====

type fakeQuizRepo struct{ r *fakeRepo }

func (f *fakeQuizRepo) Create(ctx context.Context, quiz *models.Quiz) error {
	f.r.addQuiz(quiz)
	return nil
}

func (f *fakeQuizRepo) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	stored, ok := f.r.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	q := *stored
	q.Questions = nil
	q.Attempts = nil
	return &q, nil
}

func (f *fakeQuizRepo) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Quiz, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	stored, ok := f.r.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	q := *stored
	q.Attempts = nil
	return &q, nil
}

func (f *fakeQuizRepo) UpdateWithQuestions(ctx context.Context, quiz *models.Quiz, questions []models.Question) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if f.r.updateErr != nil {
		return f.r.updateErr
	}
	stored, ok := f.r.quizzes[quiz.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range questions {
		questions[i].ID = f.r.nextQuest
		questions[i].QuizID = quiz.ID
		questions[i].Position = i
		f.r.nextQuest++
	}
	updated := *quiz
	updated.Questions = questions
	updated.Attempts = stored.Attempts
	f.r.quizzes[quiz.ID] = &updated
	return nil
}

func (f *fakeQuizRepo) Delete(ctx context.Context, id uint) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	delete(f.r.quizzes, id)
	return nil
}

func (f *fakeQuizRepo) GetByCreator(ctx context.Context, creatorID string) ([]*models.Quiz, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var out []*models.Quiz
	for _, q := range f.r.quizzes {
		if q.CreatedBy == creatorID {
			copied := *q
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeQuizRepo) GetLive(ctx context.Context, now time.Time) ([]*models.Quiz, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var out []*models.Quiz
	for _, q := range f.r.quizzes {
		if !q.IsLive(now) {
			continue
		}
		copied := *q
		if creator, ok := f.r.users[q.CreatedBy]; ok {
			copied.Creator = *creator
		}
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (f *fakeQuizRepo) GetAttemptedBy(ctx context.Context, studentID string) ([]*models.Quiz, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var out []*models.Quiz
	for _, a := range f.r.attempts {
		if a.StudentID != studentID {
			continue
		}
		stored, ok := f.r.quizzes[a.QuizID]
		if !ok {
			continue
		}
		copied := *stored
		copied.Attempts = []models.QuizAttempt{*a}
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeQuizRepo) TitleExists(ctx context.Context, title string, excludeID uint) (bool, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	for _, q := range f.r.quizzes {
		if q.Title == title && q.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeQuizRepo) ActivateDue(ctx context.Context, now time.Time) ([]uint, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var ids []uint
	for _, q := range f.r.quizzes {
		if q.Status == models.StatusDraft && !now.Before(q.StartDate) && !now.After(q.EndDate) {
			q.Status = models.StatusActive
			ids = append(ids, q.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeQuizRepo) CompleteExpired(ctx context.Context, now time.Time) ([]uint, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var ids []uint
	for _, q := range f.r.quizzes {
		if q.Status != models.StatusCompleted && now.After(q.EndDate) {
			q.Status = models.StatusCompleted
			ids = append(ids, q.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ===== ATTEMPT REPOSITORY =====

type fakeAttemptRepo struct{ r *fakeRepo }

func (f *fakeAttemptRepo) CreateIfAbsent(ctx context.Context, attempt *models.QuizAttempt) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	for _, a := range f.r.attempts {
		if a.QuizID == attempt.QuizID && a.StudentID == attempt.StudentID {
			return repositories.ErrDuplicateAttempt
		}
	}
	attempt.ID = f.r.nextAttmpt
	f.r.nextAttmpt++
	for i := range attempt.Responses {
		attempt.Responses[i].AttemptID = attempt.ID
	}
	stored := *attempt
	f.r.attempts = append(f.r.attempts, &stored)
	return nil
}

func (f *fakeAttemptRepo) HasAttempted(ctx context.Context, quizID uint, studentID string) (bool, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	for _, a := range f.r.attempts {
		if a.QuizID == quizID && a.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAttemptRepo) GetByQuizAndStudent(ctx context.Context, quizID uint, studentID string) (*models.QuizAttempt, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	for _, a := range f.r.attempts {
		if a.QuizID == quizID && a.StudentID == studentID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttemptRepo) GetByQuiz(ctx context.Context, quizID uint) ([]*models.QuizAttempt, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var out []*models.QuizAttempt
	for _, a := range f.r.attempts {
		if a.QuizID == quizID {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) CountByQuiz(ctx context.Context, quizID uint) (int64, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var count int64
	for _, a := range f.r.attempts {
		if a.QuizID == quizID {
			count++
		}
	}
	return count, nil
}

// ===== USER REPOSITORY =====

type fakeUserRepo struct{ r *fakeRepo }

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	f.r.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	user, ok := f.r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	for _, user := range f.r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	for _, user := range f.r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) GetByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var out []*models.User
	for _, user := range f.r.users {
		if user.Role == role {
			copied := *user
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	out := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		if user, ok := f.r.users[id]; ok {
			copied := *user
			out[id] = &copied
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	delete(f.r.users, id)
	return nil
}

// ===== CACHE =====

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deletes++
	return nil
}

func (c *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.deletes++
	return nil
}
