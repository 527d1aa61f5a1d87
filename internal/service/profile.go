package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/lkd-web/kurs/internal/model"
	"github.com/lkd-web/kurs/internal/repository"
	"github.com/lkd-web/kurs/internal/validation"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileUpdate carries the editable contact fields.
type ProfileUpdate struct {
	Name           string
	Company        string
	ContactAddress string
	Mobile         string
	Phone          string
}

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) ByUserID(userID string) (*model.Profile, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) Update(userID string, update ProfileUpdate) (*model.Profile, error) {
	err := validation.ValidateName(update.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	err = validation.ValidatePhone(update.Mobile)
	if err != nil {
		return nil, fmt.Errorf("%w: mobile: %s", ErrValidation, err.Error())
	}
	err = validation.ValidatePhone(update.Phone)
	if err != nil {
		return nil, fmt.Errorf("%w: phone: %s", ErrValidation, err.Error())
	}

	profile, err := s.ByUserID(userID)
	if err != nil {
		return nil, err
	}

	profile.Name = update.Name
	profile.Company = update.Company
	profile.ContactAddress = update.ContactAddress
	profile.Mobile = update.Mobile
	profile.Phone = update.Phone
	profile.UpdatedAt = time.Now()

	err = s.profileRepo.Update(profile)
	if err != nil {
		return nil, err
	}

	return profile, nil
}
