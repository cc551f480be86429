package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/arrakeen/tennis-player-rest/models"
	"github.com/arrakeen/tennis-player-rest/repositories"
)

type PlayerService interface {
	GetAllPlayers(ctx context.Context) ([]models.Player, error)
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	AddPlayer(ctx context.Context, input PlayerInput) (*models.Player, error)
	UpdatePlayer(ctx context.Context, id int, input PlayerInput) (*models.Player, error)
	PatchPlayer(ctx context.Context, id int, patch map[string]interface{}) (*models.Player, error)
	UpdateTitles(ctx context.Context, id int, titles int) error
	DeletePlayer(ctx context.Context, id int) error
}

// PlayerInput — тело запроса на создание или полное обновление игрока.
// Клиентский id принимается декодером, но игнорируется: идентификатор
// назначает хранилище (POST) или путь запроса (PUT).
type PlayerInput struct {
	ID            int                   `json:"id"`
	Name          string                `json:"name"`
	Nationality   string                `json:"nationality"`
	BirthDate     models.Date           `json:"birthDate"`
	Titles        int                   `json:"titles"`
	PlayerProfile *models.PlayerProfile `json:"playerProfile"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
	}
}

func (s *playerService) GetAllPlayers(ctx context.Context) ([]models.Player, error) {
	players, err := s.playerRepo.GetAllOrderedByID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all players: %w", err)
	}
	if players == nil {
		return []models.Player{}, nil
	}
	return players, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, &PlayerNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to get player by id %d: %w", id, err)
	}
	return player, nil
}

func (s *playerService) AddPlayer(ctx context.Context, input PlayerInput) (*models.Player, error) {
	// Свежий объект без id: назначение идентификатора — забота хранилища.
	player := &models.Player{
		Name:          input.Name,
		Nationality:   input.Nationality,
		BirthDate:     input.BirthDate,
		Titles:        input.Titles,
		PlayerProfile: input.PlayerProfile,
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlayerCreationFailed, err)
	}
	return player, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, id int, input PlayerInput) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, &PlayerNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to get player by id %d: %w", id, err)
	}

	// Полное обновление перезаписывает четыре скалярных поля,
	// профиль остаётся прежним.
	player.Name = input.Name
	player.Nationality = input.Nationality
	player.BirthDate = input.BirthDate
	player.Titles = input.Titles

	if err := s.playerRepo.Update(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, &PlayerNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("%w (id: %d): %w", ErrPlayerUpdateFailed, id, err)
	}
	return player, nil
}

func (s *playerService) PatchPlayer(ctx context.Context, id int, patch map[string]interface{}) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, &PlayerNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to get player by id %d: %w", id, err)
	}

	if err := ApplyPlayerPatch(player, patch); err != nil {
		return nil, err
	}

	if err := s.playerRepo.Update(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, &PlayerNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("%w (id: %d): %w", ErrPlayerUpdateFailed, id, err)
	}
	return player, nil
}

// UpdateTitles пишет ровно одну колонку напрямую, минуя чтение-изменение-запись.
// Существование игрока здесь не проверяется: запись по отсутствующему id
// молча не затрагивает ни одной строки.
func (s *playerService) UpdateTitles(ctx context.Context, id int, titles int) error {
	if err := s.playerRepo.UpdateTitles(ctx, id, titles); err != nil {
		return fmt.Errorf("%w (id: %d): %w", ErrPlayerUpdateFailed, id, err)
	}
	return nil
}

func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	if _, err := s.playerRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return &PlayerNotFoundError{ID: id}
		}
		return fmt.Errorf("failed to get player by id %d: %w", id, err)
	}

	if err := s.playerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w (id: %d): %w", ErrPlayerDeleteFailed, id, err)
	}
	return nil
}
