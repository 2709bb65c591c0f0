package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/homecare_bot/internal/model"
)

// attachDetails подгружает пакет и пациента для списка визитов
func attachDetails(ctx context.Context, catalog CatalogStore, patients PatientStore, appointments []*model.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	packageIDs := make([]int64, 0, len(appointments))
	patientIDs := make([]int64, 0, len(appointments))
	for _, a := range appointments {
		packageIDs = append(packageIDs, a.PackageID)
		patientIDs = append(patientIDs, a.PatientID)
	}

	pkgs, err := catalog.GetPackagesByIDs(ctx, unique(packageIDs))
	if err != nil {
		return fmt.Errorf("load packages: %w", err)
	}
	pts, err := patients.GetByIDs(ctx, unique(patientIDs))
	if err != nil {
		return fmt.Errorf("load patients: %w", err)
	}

	for _, a := range appointments {
		a.Package = pkgs[a.PackageID]
		a.Patient = pts[a.PatientID]
	}
	return nil
}

func unique(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
