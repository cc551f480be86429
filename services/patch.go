package services

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/arrakeen/tennis-player-rest/models"
)

// ApplyPlayerPatch применяет разреженный набор поле→значение к игроку.
// Набор изменяемых полей закрыт: name, nationality, birthDate, titles,
// playerProfile. Ключ id отклоняется, неизвестные ключи — ошибка.
//
// Применение атомарно: сначала все значения приводятся к типам атрибутов,
// и только если ни одно не отклонено, изменения записываются в цель.
func ApplyPlayerPatch(player *models.Player, patch map[string]interface{}) error {
	setters := make([]func(*models.Player), 0, len(patch))

	for field, value := range patch {
		setter, err := resolvePatchField(field, value)
		if err != nil {
			return err
		}
		setters = append(setters, setter)
	}

	for _, apply := range setters {
		apply(player)
	}
	return nil
}

func resolvePatchField(field string, value interface{}) (func(*models.Player), error) {
	switch field {
	case "id":
		return nil, ErrIDNotPatchable

	case "name":
		s, ok := value.(string)
		if !ok {
			return nil, &InvalidFieldValueError{Field: field, Reason: "must be a string"}
		}
		return func(p *models.Player) { p.Name = s }, nil

	case "nationality":
		s, ok := value.(string)
		if !ok {
			return nil, &InvalidFieldValueError{Field: field, Reason: "must be a string"}
		}
		return func(p *models.Player) { p.Nationality = s }, nil

	case "birthDate":
		s, ok := value.(string)
		if !ok {
			return nil, &InvalidFieldValueError{Field: field, Reason: "must be a string in format " + models.DateLayout}
		}
		date, err := models.ParseDate(s)
		if err != nil {
			return nil, &InvalidFieldValueError{Field: field, Reason: "must match format " + models.DateLayout}
		}
		return func(p *models.Player) { p.BirthDate = date }, nil

	case "titles":
		titles, err := coerceInt(field, value)
		if err != nil {
			return nil, err
		}
		return func(p *models.Player) { p.Titles = titles }, nil

	case "playerProfile":
		profile, err := coerceProfile(field, value)
		if err != nil {
			return nil, err
		}
		return func(p *models.Player) { p.PlayerProfile = profile }, nil

	default:
		return nil, &UnknownFieldError{Field: field}
	}
}

func coerceInt(field string, value interface{}) (int, error) {
	switch v := value.(type) {
	case float64:
		// JSON-числа декодируются в float64
		if v != math.Trunc(v) {
			return 0, &InvalidFieldValueError{Field: field, Reason: "must be an integer"}
		}
		return int(v), nil
	case int:
		return v, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, &InvalidFieldValueError{Field: field, Reason: "must be an integer"}
		}
		return int(n), nil
	default:
		return 0, &InvalidFieldValueError{Field: field, Reason: "must be an integer"}
	}
}

func coerceProfile(field string, value interface{}) (*models.PlayerProfile, error) {
	if value == nil {
		return nil, nil
	}

	raw, ok := value.(map[string]interface{})
	if !ok {
		return nil, &InvalidFieldValueError{Field: field, Reason: "must be an object or null"}
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, &InvalidFieldValueError{Field: field, Reason: "must be a valid profile object"}
	}

	var profile models.PlayerProfile
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&profile); err != nil {
		return nil, &InvalidFieldValueError{Field: field, Reason: "must be a valid profile object"}
	}
	return &profile, nil
}
