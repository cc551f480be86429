package models

// Player представляет теннисиста.
type Player struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Nationality string `json:"nationality" db:"nationality"`
	BirthDate   Date   `json:"birthDate" db:"birth_date"`
	Titles      int    `json:"titles" db:"titles"`

	// Профиль принадлежит игроку (1:1), удаляется вместе с ним.
	PlayerProfile *PlayerProfile `json:"playerProfile" db:"-"`
}

// PlayerProfile представляет дополнительный профиль игрока.
type PlayerProfile struct {
	ID      int     `json:"id" db:"id"`
	Twitter *string `json:"twitter" db:"twitter"`
}
