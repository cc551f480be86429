package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arrakeen/tennis-player-rest/models"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
)

type PlayerRepository interface {
	GetAllOrderedByID(ctx context.Context) ([]models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	Create(ctx context.Context, player *models.Player) error
	Update(ctx context.Context, player *models.Player) error
	UpdateTitles(ctx context.Context, id int, titles int) error
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerSelectColumns = `p.id, p.name, p.nationality, p.birth_date, p.titles, pr.id, pr.twitter`

func scanPlayer(scanner interface{ Scan(...interface{}) error }) (*models.Player, error) {
	var player models.Player
	var profileID sql.NullInt64
	var profileTwitter sql.NullString

	err := scanner.Scan(
		&player.ID,
		&player.Name,
		&player.Nationality,
		&player.BirthDate,
		&player.Titles,
		&profileID,
		&profileTwitter,
	)
	if err != nil {
		return nil, err
	}

	if profileID.Valid {
		profile := &models.PlayerProfile{ID: int(profileID.Int64)}
		if profileTwitter.Valid {
			twitter := profileTwitter.String
			profile.Twitter = &twitter
		}
		player.PlayerProfile = profile
	}

	return &player, nil
}

func (r *postgresPlayerRepository) GetAllOrderedByID(ctx context.Context) ([]models.Player, error) {
	query := `SELECT ` + playerSelectColumns + `
		FROM players p
		LEFT JOIN player_profiles pr ON p.profile_id = pr.id
		ORDER BY p.id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		player, scanErr := scanPlayer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		players = append(players, *player)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return players, nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerSelectColumns + `
		FROM players p
		LEFT JOIN player_profiles pr ON p.profile_id = pr.id
		WHERE p.id = $1`

	player, err := scanPlayer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

// Create сохраняет игрока вместе с профилем в одной транзакции.
// Назначенные базой id записываются обратно в переданные структуры.
func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var profileID interface{}
	if player.PlayerProfile != nil {
		if err = insertProfile(ctx, tx, player.PlayerProfile); err != nil {
			return err
		}
		profileID = player.PlayerProfile.ID
	}

	query := `INSERT INTO players (name, nationality, birth_date, titles, profile_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		player.Name, player.Nationality, player.BirthDate, player.Titles, profileID,
	).Scan(&player.ID)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit player insert: %w", err)
	}
	return nil
}

// Update полностью перезаписывает строку игрока. Профиль, если он присутствует
// в переданном объекте, сохраняется в той же транзакции (каскад как в Create).
func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var profileID interface{}
	if player.PlayerProfile != nil {
		if player.PlayerProfile.ID == 0 {
			if err = insertProfile(ctx, tx, player.PlayerProfile); err != nil {
				return err
			}
		} else {
			updateQuery := `UPDATE player_profiles SET twitter = $1 WHERE id = $2`
			if _, err = tx.ExecContext(ctx, updateQuery, player.PlayerProfile.Twitter, player.PlayerProfile.ID); err != nil {
				return fmt.Errorf("failed to update player profile: %w", err)
			}
		}
		profileID = player.PlayerProfile.ID
	}

	query := `UPDATE players SET name = $1, nationality = $2, birth_date = $3, titles = $4, profile_id = $5 WHERE id = $6`
	result, err := tx.ExecContext(ctx, query,
		player.Name, player.Nationality, player.BirthDate, player.Titles, profileID, player.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	if err = checkAffectedRows(result, ErrPlayerNotFound); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit player update: %w", err)
	}
	return nil
}

// UpdateTitles — узкая запись одной колонки, без цикла чтение-изменение-запись.
// Отсутствие строки с таким id здесь не считается ошибкой.
func (r *postgresPlayerRepository) UpdateTitles(ctx context.Context, id int, titles int) error {
	query := `UPDATE players SET titles = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, titles, id); err != nil {
		return fmt.Errorf("failed to update titles for player %d: %w", id, err)
	}
	return nil
}

// Delete удаляет игрока и принадлежащий ему профиль в одной транзакции.
// На уровне хранилища операция идемпотентна.
func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var profileID sql.NullInt64
	err = tx.QueryRowContext(ctx, `SELECT profile_id FROM players WHERE id = $1`, id).Scan(&profileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = nil
			return tx.Commit()
		}
		return fmt.Errorf("failed to load player %d for delete: %w", id, err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}

	if profileID.Valid {
		if _, err = tx.ExecContext(ctx, `DELETE FROM player_profiles WHERE id = $1`, profileID.Int64); err != nil {
			return fmt.Errorf("failed to delete profile for player %d: %w", id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit player delete: %w", err)
	}
	return nil
}

func insertProfile(ctx context.Context, exec SQLExecutor, profile *models.PlayerProfile) error {
	query := `INSERT INTO player_profiles (twitter) VALUES ($1) RETURNING id`
	if err := exec.QueryRowContext(ctx, query, profile.Twitter).Scan(&profile.ID); err != nil {
		return fmt.Errorf("failed to insert player profile: %w", err)
	}
	return nil
}
