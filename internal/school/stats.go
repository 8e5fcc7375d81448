package school

import (
	"context"

	"github.com/pkg/errors"
)

// Stats counts active students and teachers and sums paid finance records.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	students, err := s.repo.CountStudents(ctx, StatusActive)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting students")
	}
	teachers, err := s.repo.CountTeachers(ctx, StatusActive)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting teachers")
	}
	revenue, err := s.repo.SumFinance(ctx, FinancePaid)
	if err != nil {
		return Stats{}, errors.Wrap(err, "summing revenue")
	}
	// TODO: derive AttendanceRate from attendance history once the formula is agreed.
	return Stats{
		TotalStudents: students,
		TotalTeachers: teachers,
		TotalRevenue:  revenue,
	}, nil
}
