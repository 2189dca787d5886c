package schedule

import (
	"fmt"

	domainSchedule "buyback-logistics/internal/domain/schedule"
	appErrors "buyback-logistics/pkg/errors"
)

// State machine for appointment status transitions.
var validTransitions = map[domainSchedule.AppointmentStatus][]domainSchedule.AppointmentStatus{
	domainSchedule.StatusScheduled: {
		domainSchedule.StatusConfirmed,
		domainSchedule.StatusCancelled,
		domainSchedule.StatusNoShow,
	},
	domainSchedule.StatusConfirmed: {
		domainSchedule.StatusCompleted,
		domainSchedule.StatusCancelled,
		domainSchedule.StatusNoShow,
	},
	domainSchedule.StatusCompleted: {
		// Terminal state - no transitions
	},
	domainSchedule.StatusCancelled: {
		// Terminal state - no transitions
	},
	domainSchedule.StatusNoShow: {
		// Terminal state - no transitions
	},
}

// ValidateStatusTransition checks if an appointment status transition is allowed.
func ValidateStatusTransition(currentStatus, newStatus domainSchedule.AppointmentStatus) error {
	allowedStatuses, exists := validTransitions[currentStatus]
	if !exists {
		return appErrors.NewAppError(
			appErrors.CodeValidation,
			fmt.Sprintf("Unknown current status: %s", currentStatus),
			nil,
		)
	}

	for _, allowed := range allowedStatuses {
		if newStatus == allowed {
			return nil
		}
	}

	return appErrors.NewAppError(
		appErrors.CodeInvalidTransition,
		fmt.Sprintf("Cannot transition from %s to %s", currentStatus, newStatus),
		domainSchedule.ErrInvalidTransition,
	)
}

// GetAllowedTransitions returns allowed next statuses.
func GetAllowedTransitions(currentStatus domainSchedule.AppointmentStatus) []domainSchedule.AppointmentStatus {
	return validTransitions[currentStatus]
}
