package notificacion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Evento es el cuerpo JSON que recibe el webhook.
type Evento struct {
	Tipo       string    `json:"tipo"`
	Referencia string    `json:"referencia"`
	Mensaje    string    `json:"mensaje"`
	Datos      any       `json:"datos,omitempty"`
	Fecha      time.Time `json:"fecha"`
}

// Webhook publica eventos por HTTP POST. Con URL vacía no envía nada.
type Webhook struct {
	URL    string
	Client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{URL: url, Client: &http.Client{Timeout: 5 * time.Second}}
}

func (w *Webhook) Enviar(ctx context.Context, ev Evento) error {
	if w == nil || w.URL == "" {
		return nil
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("enviar webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook respondió %d", resp.StatusCode)
	}
	return nil
}
