package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

type PatientService struct {
	patientRepo PatientStore
	clock       scheduling.Clock
	logger      *zap.Logger
}

func NewPatientService(patientRepo PatientStore, clock scheduling.Clock, logger *zap.Logger) *PatientService {
	return &PatientService{
		patientRepo: patientRepo,
		clock:       clock,
		logger:      logger,
	}
}

// CreatePatient проверяет и сохраняет профиль пациента
func (s *PatientService) CreatePatient(ctx context.Context, p *model.Patient) error {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Address = strings.TrimSpace(p.Address)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Notes = strings.TrimSpace(p.Notes)

	if err := s.validate(p); err != nil {
		return err
	}

	if err := s.patientRepo.Create(ctx, p); err != nil {
		return fmt.Errorf("create patient: %w", err)
	}

	s.logger.Info("Patient created",
		zap.Int64("patient_id", p.ID),
		zap.Int64("owner_id", p.OwnerID),
	)
	return nil
}

func (s *PatientService) validate(p *model.Patient) error {
	if p.OwnerID == 0 {
		return fmt.Errorf("%w: owner is required", ErrInvalidPatient)
	}
	if n := utf8.RuneCountInString(p.FullName); n < 2 || n > 200 {
		return fmt.Errorf("%w: full name must be 2-200 characters", ErrInvalidPatient)
	}
	if utf8.RuneCountInString(p.Address) < 5 {
		return fmt.Errorf("%w: address is too short", ErrInvalidPatient)
	}
	if p.BirthYear != 0 {
		year := s.clock.Now().Year()
		if p.BirthYear < year-120 || p.BirthYear > year {
			return fmt.Errorf("%w: birth year %d is out of range", ErrInvalidPatient, p.BirthYear)
		}
	}
	return nil
}

// ListByOwner возвращает пациентов пользователя
func (s *PatientService) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Patient, error) {
	return s.patientRepo.ListByOwner(ctx, ownerID)
}

// GetForOwner возвращает пациента, если он принадлежит пользователю
func (s *PatientService) GetForOwner(ctx context.Context, ownerID, patientID int64) (*model.Patient, error) {
	p, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	if p == nil || p.OwnerID != ownerID {
		return nil, ErrPatientNotFound
	}
	return p, nil
}
