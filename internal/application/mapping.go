package application

import (
	"errors"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	default:
		return err
	}
}

func recurrenceFromRecord(record persistence.Recurrence) Recurrence {
	return Recurrence{
		Rule:       record.Rule,
		StartsOn:   record.StartsOn,
		Indefinite: record.Indefinite,
		EndsOn:     record.EndsOn,
	}
}

func recurrenceToRecord(recurrence Recurrence) persistence.Recurrence {
	return persistence.Recurrence{
		Rule:       recurrence.Rule,
		StartsOn:   recurrence.StartsOn,
		Indefinite: recurrence.Indefinite,
		EndsOn:     recurrence.EndsOn,
	}
}

func userFromRecord(record persistence.User) User {
	return User{
		ID:          record.ID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		AvatarColor: record.AvatarColor,
		IsAdmin:     record.IsAdmin,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func assignmentFromRecord(record persistence.JobAssignment) Assignment {
	return Assignment{
		ID:         record.ID,
		JobID:      record.JobID,
		UserID:     record.UserID,
		SortOrder:  record.SortOrder,
		Recurrence: recurrenceFromRecord(record.Recurrence),
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

func jobFromRecord(record persistence.Job) Job {
	job := Job{
		ID:                  record.ID,
		Title:               record.Title,
		Description:         record.Description,
		ImageURL:            record.ImageURL,
		UseSharedRecurrence: record.UseSharedRecurrence,
		Recurrence:          recurrenceFromRecord(record.Recurrence),
		CreatedAt:           record.CreatedAt,
		UpdatedAt:           record.UpdatedAt,
	}
	for _, assignment := range record.Assignments {
		job.Assignments = append(job.Assignments, assignmentFromRecord(assignment))
	}
	return job
}

func sessionFromRecord(record persistence.Session) Session {
	return Session{
		ID:        record.ID,
		UserID:    record.UserID,
		Token:     record.Token,
		ExpiresAt: record.ExpiresAt,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
		RevokedAt: record.RevokedAt,
	}
}

func shoppingListFromRecord(record persistence.ShoppingList) ShoppingList {
	return ShoppingList{
		ID:        record.ID,
		Name:      record.Name,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func shoppingItemFromRecord(record persistence.ShoppingItem) ShoppingItem {
	return ShoppingItem{
		ID:        record.ID,
		ListID:    record.ListID,
		Name:      record.Name,
		Quantity:  record.Quantity,
		Checked:   record.Checked,
		Position:  record.Position,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func calendarSourceFromRecord(record persistence.CalendarSource) CalendarSource {
	return CalendarSource{
		ID:        record.ID,
		Label:     record.Label,
		URL:       record.URL,
		Color:     record.Color,
		Enabled:   record.Enabled,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func settingsFromRecord(record persistence.SiteSettings) SiteSettings {
	return SiteSettings{
		HouseholdName:   record.HouseholdName,
		WeatherLocation: record.WeatherLocation,
		UpdatedAt:       record.UpdatedAt,
	}
}
