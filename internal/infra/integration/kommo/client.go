package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/residence-leads/internal/entity"
)

var errContactNotFound = errors.New("contact not found")

// Client forwards captured leads into the Kommo CRM pipeline.
type Client struct {
	apiToken   string
	baseURL    string
	statusID   int
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient expects baseURL like "https://<account>.kommo.com/api/v4".
// statusID selects the pipeline stage for new leads; 0 uses the default.
func NewClient(baseURL, apiToken string, statusID int, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		apiToken:   apiToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		statusID:   statusID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}
}

// NotifyLeadCreated finds or creates the contact by email, then opens a CRM
// lead linked to it and attaches the inquiry message as a note.
func (c *Client) NotifyLeadCreated(ctx context.Context, lead *entity.Lead) error {
	contactID, err := c.findOrCreateContact(ctx, lead)
	if err != nil {
		return fmt.Errorf("kommo contact: %w", err)
	}

	name := fmt.Sprintf("%s %s - %s", lead.FirstName, lead.LastName, lead.Type)
	if lead.ApartmentTitle != "" {
		name += " - " + lead.ApartmentTitle
	}

	payload := []leadPayload{{
		Name:     name,
		StatusID: c.statusID,
		Embedded: leadEmbedded{
			Tags:     []tag{{Name: string(lead.Type)}, {Name: "lang_" + lead.Language}},
			Contacts: []contactRef{{ID: contactID}},
		},
	}}

	var created leadsEnvelope
	if err := c.do(ctx, http.MethodPost, "/leads", payload, &created); err != nil {
		return fmt.Errorf("kommo lead: %w", err)
	}
	if len(created.Embedded.Leads) == 0 {
		return errors.New("kommo lead: empty response")
	}
	crmID := created.Embedded.Leads[0].ID

	if lead.Message != "" {
		note := []notePayload{{
			EntityID: crmID,
			NoteType: "common",
			Params:   map[string]string{"text": lead.Message},
		}}
		if err := c.do(ctx, http.MethodPost, "/leads/notes", note, nil); err != nil {
			c.log.WithError(err).WithField("kommo_lead_id", crmID).Warn("kommo note not attached")
		}
	}

	c.log.WithFields(logrus.Fields{
		"lead_id":       lead.ID,
		"kommo_lead_id": crmID,
	}).Info("lead forwarded to kommo")
	return nil
}

func (c *Client) findOrCreateContact(ctx context.Context, lead *entity.Lead) (int, error) {
	id, err := c.findContactByEmail(ctx, lead.Email)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, errContactNotFound) {
		return 0, err
	}
	return c.createContact(ctx, lead)
}

func (c *Client) findContactByEmail(ctx context.Context, email string) (int, error) {
	var result contactsEnvelope
	if err := c.do(ctx, http.MethodGet, "/contacts?query="+url.QueryEscape(email), nil, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errContactNotFound
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) createContact(ctx context.Context, lead *entity.Lead) (int, error) {
	fields := []customFieldValue{{
		FieldCode: "EMAIL",
		Values:    []fieldValue{{Value: lead.Email, EnumCode: "WORK"}},
	}}
	if lead.Phone != "" {
		fields = append(fields, customFieldValue{
			FieldCode: "PHONE",
			Values:    []fieldValue{{Value: lead.Phone, EnumCode: "WORK"}},
		})
	}

	payload := []contactPayload{{
		FirstName:          lead.FirstName,
		LastName:           lead.LastName,
		CustomFieldsValues: fields,
	}}

	var result contactsEnvelope
	if err := c.do(ctx, http.MethodPost, "/contacts", payload, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("contact id missing from response")
	}
	return result.Embedded.Contacts[0].ID, nil
}

// do sends a JSON request. Kommo answers 204 for an empty contact search.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	return json.Unmarshal(respBody, out)
}
