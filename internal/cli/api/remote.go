package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"BinderKeeper/internal/cli/auth"
	"BinderKeeper/internal/cli/model"
	"BinderKeeper/internal/config"
)

// Сервер использует другое соглашение об именах полей (snake_case,
// created/updated как RFC3339). Обязанность клиента на границе —
// взаимно однозначное отображение на внутреннюю модель.

// RemoteBinderCard — карточная запись биндера в сетевом представлении.
type RemoteBinderCard struct {
	CardID    int      `json:"card_id"`
	Qty       int      `json:"qty"`
	SetCode   string   `json:"set_code,omitempty"`
	Rarity    string   `json:"rarity,omitempty"`
	Condition string   `json:"cond,omitempty"`
	Edition   string   `json:"ed,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// RemoteBinder — биндер в сетевом представлении.
type RemoteBinder struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Desc     string             `json:"desc,omitempty"`
	Tags     []string           `json:"tags,omitempty"`
	Favorite bool               `json:"fav"`
	Created  string             `json:"created"`
	Updated  string             `json:"updated"`
	Cards    []RemoteBinderCard `json:"cards"`
}

// RemoteDeckCard — позиция колоды в сетевом представлении.
type RemoteDeckCard struct {
	CardID int `json:"card_id"`
	Qty    int `json:"qty"`
}

// RemoteDeck — колода в сетевом представлении.
type RemoteDeck struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Desc    string           `json:"desc,omitempty"`
	Format  string           `json:"format,omitempty"`
	Tags    []string         `json:"tags,omitempty"`
	Notes   string           `json:"notes,omitempty"`
	Created string           `json:"created"`
	Updated string           `json:"updated"`
	Main    []RemoteDeckCard `json:"main"`
	Extra   []RemoteDeckCard `json:"extra"`
	Side    []RemoteDeckCard `json:"side"`
}

func parseRemoteTime(s string) int64 {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0
	}
	return t.Unix()
}

func formatRemoteTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

// ToModel переводит сетевой биндер во внутреннюю модель.
func (r *RemoteBinder) ToModel() *model.Binder {
	b := &model.Binder{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Desc,
		Tags:        r.Tags,
		IsFavorite:  r.Favorite,
		CreatedAt:   parseRemoteTime(r.Created),
		ModifiedAt:  parseRemoteTime(r.Updated),
		Cards:       make([]model.BinderCard, 0, len(r.Cards)),
	}
	for _, c := range r.Cards {
		b.Cards = append(b.Cards, model.BinderCard{
			CardID: c.CardID, Quantity: c.Qty,
			SetCode: c.SetCode, Rarity: c.Rarity, Condition: c.Condition,
			Edition: c.Edition, Notes: c.Notes, Tags: c.Tags,
		})
	}
	return b
}

// RemoteBinderFromModel переводит внутренний биндер в сетевое представление.
func RemoteBinderFromModel(b *model.Binder) *RemoteBinder {
	r := &RemoteBinder{
		ID:       b.ID,
		Name:     b.Name,
		Desc:     b.Description,
		Tags:     b.Tags,
		Favorite: b.IsFavorite,
		Created:  formatRemoteTime(b.CreatedAt),
		Updated:  formatRemoteTime(b.ModifiedAt),
		Cards:    make([]RemoteBinderCard, 0, len(b.Cards)),
	}
	for _, c := range b.Cards {
		r.Cards = append(r.Cards, RemoteBinderCard{
			CardID: c.CardID, Qty: c.Quantity,
			SetCode: c.SetCode, Rarity: c.Rarity, Condition: c.Condition,
			Edition: c.Edition, Notes: c.Notes, Tags: c.Tags,
		})
	}
	return r
}

// ToModel переводит сетевую колоду во внутреннюю модель.
func (r *RemoteDeck) ToModel() *model.Deck {
	conv := func(cards []RemoteDeckCard) []model.DeckCard {
		out := make([]model.DeckCard, 0, len(cards))
		for _, c := range cards {
			out = append(out, model.DeckCard{CardID: c.CardID, Quantity: c.Qty})
		}
		return out
	}
	return &model.Deck{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Desc,
		Format:      r.Format,
		Tags:        r.Tags,
		Notes:       r.Notes,
		CreatedAt:   parseRemoteTime(r.Created),
		ModifiedAt:  parseRemoteTime(r.Updated),
		MainDeck:    conv(r.Main),
		ExtraDeck:   conv(r.Extra),
		SideDeck:    conv(r.Side),
	}
}

// RemoteDeckFromModel переводит внутреннюю колоду в сетевое представление.
func RemoteDeckFromModel(d *model.Deck) *RemoteDeck {
	conv := func(cards []model.DeckCard) []RemoteDeckCard {
		out := make([]RemoteDeckCard, 0, len(cards))
		for _, c := range cards {
			out = append(out, RemoteDeckCard{CardID: c.CardID, Qty: c.Quantity})
		}
		return out
	}
	return &RemoteDeck{
		ID:      d.ID,
		Name:    d.Name,
		Desc:    d.Description,
		Format:  d.Format,
		Tags:    d.Tags,
		Notes:   d.Notes,
		Created: formatRemoteTime(d.CreatedAt),
		Updated: formatRemoteTime(d.ModifiedAt),
		Main:    conv(d.MainDeck),
		Extra:   conv(d.ExtraDeck),
		Side:    conv(d.SideDeck),
	}
}

// Client — HTTP-клиент удалённого сервиса коллекций.
type Client struct {
	cfg *config.Config
}

// NewClient создаёт клиента для переданной конфигурации.
func NewClient(cfg *config.Config) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) token() string {
	token, _ := auth.LoadToken()
	return token
}

// FetchBinder запрашивает биндер по id. Второе значение — найден ли он на сервере.
func (c *Client) FetchBinder(id string) (*model.Binder, bool, error) {
	resp, body, err := GetJSON(c.cfg.ServerURL+"/api/binder/"+id, c.token())
	if err != nil {
		return nil, false, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}
	var r RemoteBinder
	if err := decodeBody(body, &r); err != nil {
		return nil, false, err
	}
	return r.ToModel(), true, nil
}

// UploadBinder отправляет локальную копию биндера на сервер.
func (c *Client) UploadBinder(b *model.Binder) error {
	resp, body, err := PutJSON(c.cfg.ServerURL+"/api/binder/"+b.ID, RemoteBinderFromModel(b), c.token())
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// FetchDeck запрашивает колоду по id.
func (c *Client) FetchDeck(id string) (*model.Deck, bool, error) {
	resp, body, err := GetJSON(c.cfg.ServerURL+"/api/deck/"+id, c.token())
	if err != nil {
		return nil, false, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}
	var r RemoteDeck
	if err := decodeBody(body, &r); err != nil {
		return nil, false, err
	}
	return r.ToModel(), true, nil
}

// UploadDeck отправляет локальную копию колоды на сервер.
func (c *Client) UploadDeck(d *model.Deck) error {
	resp, body, err := PutJSON(c.cfg.ServerURL+"/api/deck/"+d.ID, RemoteDeckFromModel(d), c.token())
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func decodeBody(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode server response: %w", err)
	}
	return nil
}
