package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/svn-hms/complaint-service/internal/domain"
	"github.com/svn-hms/complaint-service/internal/events"
	"github.com/svn-hms/complaint-service/internal/repository"
)

// In-memory repository fakes. Only the behavior the services exercise is
// modelled; everything returns pgx.ErrNoRows on a miss like the real thing.

type fakeRoomRepo struct {
	mu     sync.Mutex
	rooms  map[int64]domain.Room
	nextID int64
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: map[int64]domain.Room{}, nextID: 1}
}

func (f *fakeRoomRepo) Create(ctx context.Context, room *domain.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	room.ID = f.nextID
	f.nextID++
	room.CreatedAt = time.Now()
	room.UpdatedAt = room.CreatedAt
	f.rooms[room.ID] = *room
	return nil
}

func (f *fakeRoomRepo) Update(ctx context.Context, room *domain.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rooms[room.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.rooms[room.ID] = *room
	return nil
}

func (f *fakeRoomRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rooms[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rooms, id)
	return nil
}

func (f *fakeRoomRepo) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := room
	return &copied, nil
}

func (f *fakeRoomRepo) List(ctx context.Context, filter repository.RoomFilter) ([]domain.Room, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Room
	for _, room := range f.rooms {
		result = append(result, room)
	}
	return result, int64(len(result)), nil
}

func (f *fakeRoomRepo) ExistsDuplicate(ctx context.Context, room *domain.Room) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rooms {
		if existing.ID == room.ID {
			continue
		}
		if existing.BedNo == room.BedNo && existing.RoomNo == room.RoomNo &&
			existing.Block == room.Block && existing.FloorNo == room.FloorNo &&
			existing.Ward == room.Ward && existing.Speciality == room.Speciality &&
			existing.RoomType == room.RoomType {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRoomRepo) SetDataEnc(ctx context.Context, id int64, dataenc string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return pgx.ErrNoRows
	}
	room.DataEnc = dataenc
	room.QRStatus = domain.QRStatusPending
	f.rooms[id] = room
	return nil
}

func (f *fakeRoomRepo) SetQRArtifact(ctx context.Context, id int64, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return pgx.ErrNoRows
	}
	room.QRPath = &path
	room.QRStatus = domain.QRStatusSigned
	f.rooms[id] = room
	return nil
}

func (f *fakeRoomRepo) UpdateStatus(ctx context.Context, id int64, status domain.RecordStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return pgx.ErrNoRows
	}
	room.Status = status
	f.rooms[id] = room
	return nil
}

type fakeQRQueue struct {
	mu      sync.Mutex
	roomIDs []int64
}

func (f *fakeQRQueue) Enqueue(ctx context.Context, roomID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roomIDs = append(f.roomIDs, roomID)
	return nil
}

func (f *fakeQRQueue) enqueued() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64{}, f.roomIDs...)
}

type fakeDepartmentRepo struct {
	departments map[string]domain.Department
}

func newFakeDepartmentRepo(departments ...domain.Department) *fakeDepartmentRepo {
	f := &fakeDepartmentRepo{departments: map[string]domain.Department{}}
	for _, dept := range departments {
		f.departments[dept.Code] = dept
	}
	return f
}

func (f *fakeDepartmentRepo) Create(ctx context.Context, dept *domain.Department) error {
	f.departments[dept.Code] = *dept
	return nil
}

func (f *fakeDepartmentRepo) Update(ctx context.Context, dept *domain.Department) error {
	if _, ok := f.departments[dept.Code]; !ok {
		return pgx.ErrNoRows
	}
	f.departments[dept.Code] = *dept
	return nil
}

func (f *fakeDepartmentRepo) Delete(ctx context.Context, code string) error {
	if _, ok := f.departments[code]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.departments, code)
	return nil
}

func (f *fakeDepartmentRepo) GetByCode(ctx context.Context, code string) (*domain.Department, error) {
	dept, ok := f.departments[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := dept
	return &copied, nil
}

func (f *fakeDepartmentRepo) GetByName(ctx context.Context, name string) (*domain.Department, error) {
	for _, dept := range f.departments {
		if strings.EqualFold(dept.Name, name) {
			copied := dept
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDepartmentRepo) ExistsByName(ctx context.Context, name, excludeCode string) (bool, error) {
	for _, dept := range f.departments {
		if dept.Code != excludeCode && strings.EqualFold(dept.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDepartmentRepo) List(ctx context.Context, filter repository.DepartmentFilter) ([]domain.Department, int64, error) {
	var result []domain.Department
	for _, dept := range f.departments {
		result = append(result, dept)
	}
	return result, int64(len(result)), nil
}

type fakeCategoryRepo struct {
	categories map[string]domain.IssueCategory
}

func newFakeCategoryRepo(categories ...domain.IssueCategory) *fakeCategoryRepo {
	f := &fakeCategoryRepo{categories: map[string]domain.IssueCategory{}}
	for _, cat := range categories {
		f.categories[cat.Code] = cat
	}
	return f
}

func (f *fakeCategoryRepo) Create(ctx context.Context, cat *domain.IssueCategory) error {
	f.categories[cat.Code] = *cat
	return nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, cat *domain.IssueCategory) error {
	if _, ok := f.categories[cat.Code]; !ok {
		return pgx.ErrNoRows
	}
	f.categories[cat.Code] = *cat
	return nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, code string) error {
	if _, ok := f.categories[code]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.categories, code)
	return nil
}

func (f *fakeCategoryRepo) GetByCode(ctx context.Context, code string) (*domain.IssueCategory, error) {
	cat, ok := f.categories[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := cat
	return &copied, nil
}

func (f *fakeCategoryRepo) GetActiveByName(ctx context.Context, name string) (*domain.IssueCategory, error) {
	for _, cat := range f.categories {
		if strings.EqualFold(cat.Name, name) && cat.Status == domain.StatusActive {
			copied := cat
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCategoryRepo) ExistsByName(ctx context.Context, name, excludeCode string) (bool, error) {
	for _, cat := range f.categories {
		if cat.Code != excludeCode && strings.EqualFold(cat.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryRepo) List(ctx context.Context, filter repository.IssueCategoryFilter) ([]domain.IssueCategory, int64, error) {
	var result []domain.IssueCategory
	for _, cat := range f.categories {
		result = append(result, cat)
	}
	return result, int64(len(result)), nil
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[string]domain.User{}}
	for _, user := range users {
		f.users[user.ID] = user
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetStaffByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Username == username && user.Role == domain.RoleStaff {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) ListStaffByDepartmentName(ctx context.Context, departmentName string) ([]domain.User, error) {
	return nil, nil
}

type fakeComplaintRepo struct {
	mu         sync.Mutex
	complaints map[string]repository.ComplaintRecord
	createErrs []error
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{complaints: map[string]repository.ComplaintRecord{}}
}

func (f *fakeComplaintRepo) Create(ctx context.Context, complaint *domain.Complaint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := f.complaints[complaint.TicketID]; ok {
		return &pgconn.PgError{Code: "23505", ConstraintName: "complaints_pkey"}
	}
	complaint.SubmittedAt = time.Now()
	f.complaints[complaint.TicketID] = repository.ComplaintRecord{Complaint: *complaint}
	return nil
}

func (f *fakeComplaintRepo) Update(ctx context.Context, complaint *domain.Complaint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.complaints[complaint.TicketID]
	if !ok {
		return pgx.ErrNoRows
	}
	record.Complaint = *complaint
	f.complaints[complaint.TicketID] = record
	return nil
}

func (f *fakeComplaintRepo) Delete(ctx context.Context, ticketID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.complaints[ticketID]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.complaints, ticketID)
	return nil
}

func (f *fakeComplaintRepo) GetByTicketID(ctx context.Context, ticketID string) (*repository.ComplaintRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.complaints[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := record
	return &copied, nil
}

func (f *fakeComplaintRepo) List(ctx context.Context, filter repository.ComplaintFilter) ([]repository.ComplaintRecord, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []repository.ComplaintRecord
	for _, record := range f.complaints {
		if filter.DepartmentCode != nil {
			if record.Complaint.AssignedDepartment == nil ||
				*record.Complaint.AssignedDepartment != *filter.DepartmentCode {
				continue
			}
		}
		if filter.Status != nil && record.Complaint.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && record.Complaint.Priority != *filter.Priority {
			continue
		}
		result = append(result, record)
	}
	total := int64(len(result))
	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			result = nil
		} else {
			result = result[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, total, nil
}

func (f *fakeComplaintRepo) ExistsOpenForRoomIssue(ctx context.Context, roomID int64, issueType string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.complaints {
		c := record.Complaint
		if c.RoomID != nil && *c.RoomID == roomID && c.IssueType == issueType &&
			(c.Status == domain.ComplaintStatusOpen || c.Status == domain.ComplaintStatusInProgress) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeComplaintRepo) DepartmentPriorityStats(ctx context.Context, departmentCode string, priority domain.ComplaintPriority) (*repository.StatsCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := repository.StatsCounts{}
	for _, record := range f.complaints {
		c := record.Complaint
		if c.AssignedDepartment == nil || *c.AssignedDepartment != departmentCode || c.Priority != priority {
			continue
		}
		counts.TotalTickets++
		if c.Status == domain.ComplaintStatusResolved || c.Status == domain.ComplaintStatusClosed {
			counts.ResolvedTickets++
		} else {
			counts.PendingTickets++
		}
	}
	return &counts, nil
}

func (f *fakeComplaintRepo) GroupedStats(ctx context.Context, filter repository.ComplaintFilter) ([]repository.StatsRow, int64, error) {
	return nil, 0, nil
}

func (f *fakeComplaintRepo) ResolvedAverageTAT(ctx context.Context, filter repository.ComplaintFilter) (int64, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	var totalSeconds float64
	for _, record := range f.complaints {
		c := record.Complaint
		if c.ResolvedAt == nil {
			continue
		}
		if c.Status != domain.ComplaintStatusResolved && c.Status != domain.ComplaintStatusClosed {
			continue
		}
		count++
		totalSeconds += c.ResolvedAt.Sub(c.SubmittedAt).Seconds()
	}
	if count == 0 {
		return 0, 0, nil
	}
	return count, totalSeconds / float64(count), nil
}

type fakeImageRepo struct {
	mu     sync.Mutex
	images []domain.ComplaintImage
}

func (f *fakeImageRepo) Create(ctx context.Context, image *domain.ComplaintImage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	image.ID = int64(len(f.images) + 1)
	f.images = append(f.images, *image)
	return nil
}

func (f *fakeImageRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.ComplaintImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.ComplaintImage
	for _, image := range f.images {
		if image.TicketID == ticketID {
			result = append(result, image)
		}
	}
	return result, nil
}

type fakeMediaStore struct {
	mu    sync.Mutex
	saved []string
}

func (f *fakeMediaStore) Save(fileName string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := "media/test/" + fileName
	f.saved = append(f.saved, path)
	return path, nil
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeDispatcher) Publish(ctx context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (f *fakeDispatcher) published() []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Event{}, f.events...)
}
