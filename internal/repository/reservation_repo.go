package repository

import (
	"context"
	"errors"
	"time"

	"eventhall/internal/domain"

	"gorm.io/gorm"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

type reservationModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	HallID             int64      `gorm:"column:hall_id;not null;index:idx_reservations_hall_day"`
	UserID             int64      `gorm:"column:user_id;not null;index"`
	PerformerID        *int64     `gorm:"column:performer_id;index"`
	ParentID           *int64     `gorm:"column:parent_id;index"`
	Day                string     `gorm:"column:day;size:10;not null;index:idx_reservations_hall_day"`
	Slot               string     `gorm:"column:slot;size:16;not null"`
	StartTime          string     `gorm:"column:start_time;size:5"`
	EndTime            string     `gorm:"column:end_time;size:5"`
	Price              int64      `gorm:"column:price"`
	OnSale             bool       `gorm:"column:on_sale"`
	Status             string     `gorm:"column:status;size:16;not null;index"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
	ActionToken        string     `gorm:"column:action_token;size:64"`
	RespondedAt        *time.Time `gorm:"column:responded_at"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (reservationModel) TableName() string { return "reservations" }

// reservationSlotModel claims one half-day cell of a hall for an active hall
// reservation. The unique index is what keeps two active reservations from
// holding conflicting slots.
type reservationSlotModel struct {
	ID            int64  `gorm:"column:id;primaryKey"`
	ReservationID int64  `gorm:"column:reservation_id;not null;index"`
	HallID        int64  `gorm:"column:hall_id;not null;uniqueIndex:idx_reservation_slot_cell"`
	Day           string `gorm:"column:day;size:10;not null;uniqueIndex:idx_reservation_slot_cell"`
	Part          string `gorm:"column:part;size:4;not null;uniqueIndex:idx_reservation_slot_cell"`
}

func (reservationSlotModel) TableName() string { return "reservation_slots" }

func toDomainReservation(m reservationModel) *domain.Reservation {
	day, _ := domain.ParseDay(m.Day)
	r := &domain.Reservation{
		ID:          m.ID,
		HallID:      m.HallID,
		UserID:      m.UserID,
		PerformerID: m.PerformerID,
		ParentID:    m.ParentID,
		Day:         day,
		Slot:        domain.Slot(m.Slot),
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		Price:       m.Price,
		OnSale:      m.OnSale,
		Status:      domain.ReservationStatus(m.Status),
		ActionToken: m.ActionToken,
		RespondedAt: m.RespondedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.CancellationReason != nil {
		r.CancellationReason = *m.CancellationReason
	}
	return r
}

func toReservationModel(r *domain.Reservation) reservationModel {
	return reservationModel{
		ID:                 r.ID,
		HallID:             r.HallID,
		UserID:             r.UserID,
		PerformerID:        r.PerformerID,
		ParentID:           r.ParentID,
		Day:                domain.FormatDay(r.Day),
		Slot:               string(r.Slot),
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		Price:              r.Price,
		OnSale:             r.OnSale,
		Status:             string(r.Status),
		CancellationReason: optString(r.CancellationReason),
		ActionToken:        r.ActionToken,
		RespondedAt:        r.RespondedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func toDomainReservations(rows []reservationModel) []domain.Reservation {
	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out
}

func activeStatusStrings() []string {
	out := make([]string, 0, len(domain.ActiveStatuses))
	for _, s := range domain.ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}

// CreateHallReservation inserts r and claims its slot cells in one
// transaction. A conflicting active reservation yields ErrSlotTaken.
func (r *ReservationRepository) CreateHallReservation(ctx context.Context, res *domain.Reservation) error {
	if res.PerformerID != nil {
		return errors.New("performer attachment passed to CreateHallReservation")
	}

	m := toReservationModel(res)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Fast path for the common conflict; the unique index below still
		// decides races between concurrent writers.
		var taken int64
		if err := tx.Model(&reservationSlotModel{}).
			Where("hall_id = ? AND day = ? AND part IN ?", m.HallID, m.Day, partStrings(res.Slot)).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrSlotTaken
		}

		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		claims := make([]reservationSlotModel, 0, 2)
		for _, part := range res.Slot.Parts() {
			claims = append(claims, reservationSlotModel{
				ReservationID: m.ID,
				HallID:        m.HallID,
				Day:           m.Day,
				Part:          string(part),
			})
		}
		if len(claims) == 0 {
			return domain.ErrUnknownSlot
		}
		return tx.Create(&claims).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return err
	}

	*res = *toDomainReservation(m)
	return nil
}

// CreateAttachment inserts a performer attachment. A second active request
// for the same customer and performer yields ErrDuplicateAttachment.
func (r *ReservationRepository) CreateAttachment(ctx context.Context, res *domain.Reservation) error {
	if res.PerformerID == nil {
		return errors.New("hall reservation passed to CreateAttachment")
	}

	m := toReservationModel(res)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateAttachment
		}
		return err
	}
	*res = *toDomainReservation(m)
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainReservation(m), nil
}

// ListActiveHallReservations returns pending or approved hall reservations
// (attachments excluded) with from <= day <= to.
func (r *ReservationRepository) ListActiveHallReservations(ctx context.Context, hallID int64, from, to time.Time) ([]domain.Reservation, error) {
	var rows []reservationModel
	err := r.db.WithContext(ctx).
		Where("hall_id = ? AND performer_id IS NULL", hallID).
		Where("day >= ? AND day <= ?", domain.FormatDay(from), domain.FormatDay(to)).
		Where("status IN ?", activeStatusStrings()).
		Order("day ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainReservations(rows), nil
}

// FindActiveHallReservation returns the customer's active hall reservation
// for the exact (hall, day, slot), or ErrNotFound.
func (r *ReservationRepository) FindActiveHallReservation(ctx context.Context, userID, hallID int64, day time.Time, slot domain.Slot) (*domain.Reservation, error) {
	var m reservationModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND hall_id = ? AND performer_id IS NULL", userID, hallID).
		Where("day = ? AND slot = ?", domain.FormatDay(day), string(slot)).
		Where("status IN ?", activeStatusStrings()).
		Order("id ASC").
		First(&m).Error
	if err != nil {
		return nil, notFound(err)
	}
	return toDomainReservation(m), nil
}

// FindActiveAttachment returns the customer's non-cancelled request for the
// performer, or ErrNotFound.
func (r *ReservationRepository) FindActiveAttachment(ctx context.Context, userID, performerID int64) (*domain.Reservation, error) {
	var m reservationModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND performer_id = ?", userID, performerID).
		Where("status <> ?", string(domain.ReservationCancelled)).
		First(&m).Error
	if err != nil {
		return nil, notFound(err)
	}
	return toDomainReservation(m), nil
}

// StatusChange describes a guarded status transition.
type StatusChange struct {
	From   []domain.ReservationStatus
	To     domain.ReservationStatus
	Reason string
	// Responded stamps responded_at; set for approve/decline actions.
	Responded bool
	// Cascade is the reason written to attachments of a cancelled hall
	// reservation. Empty leaves attachments untouched.
	Cascade string
}

// UpdateStatus moves reservation id to c.To if it is currently in one of
// c.From. Cancelling a hall reservation releases its slot cells and, with
// c.Cascade set, cancels its active attachments in the same transaction.
// It returns ErrStatusConflict when the row is in any other state.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, c StatusChange, at time.Time) (*domain.Reservation, error) {
	from := make([]string, 0, len(c.From))
	for _, s := range c.From {
		from = append(from, string(s))
	}

	var out reservationModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":     string(c.To),
			"updated_at": at,
		}
		if c.Reason != "" {
			updates["cancellation_reason"] = c.Reason
		}
		if c.Responded {
			updates["responded_at"] = at
		}

		res := tx.Model(&reservationModel{}).
			Where("id = ? AND status IN ?", id, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var cnt int64
			if err := tx.Model(&reservationModel{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
				return err
			}
			if cnt == 0 {
				return ErrNotFound
			}
			return ErrStatusConflict
		}

		if c.To == domain.ReservationCancelled {
			if err := tx.Where("reservation_id = ?", id).Delete(&reservationSlotModel{}).Error; err != nil {
				return err
			}
			if c.Cascade != "" {
				err := tx.Model(&reservationModel{}).
					Where("parent_id = ? AND status IN ?", id, activeStatusStrings()).
					Updates(map[string]any{
						"status":              string(domain.ReservationCancelled),
						"cancellation_reason": c.Cascade,
						"updated_at":          at,
					}).Error
				if err != nil {
					return err
				}
			}
		}

		return tx.First(&out, id).Error
	})
	if err != nil {
		return nil, err
	}
	return toDomainReservation(out), nil
}

// ListByUser returns every reservation and attachment the customer made,
// newest first.
func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	var rows []reservationModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainReservations(rows), nil
}

type ReservationFilter struct {
	Day    *time.Time
	Status domain.ReservationStatus
}

// ListByHall returns the hall's reservations and attachments for the owner view.
func (r *ReservationRepository) ListByHall(ctx context.Context, hallID int64, f ReservationFilter) ([]domain.Reservation, error) {
	q := r.db.WithContext(ctx).Where("hall_id = ?", hallID)
	if f.Day != nil {
		q = q.Where("day = ?", domain.FormatDay(*f.Day))
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}

	var rows []reservationModel
	if err := q.Order("day ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainReservations(rows), nil
}

func partStrings(s domain.Slot) []string {
	parts := s.Parts()
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, string(p))
	}
	return out
}
