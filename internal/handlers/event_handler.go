package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/meetbot/internal/models"
	"github.com/joshua-takyi/meetbot/internal/services"
)

// EventView is the public JSON shape of an event. Attendee identities are
// reduced to display names.
type EventView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DateTime     time.Time `json:"dateTime"`
	Place        string    `json:"place"`
	Address      string    `json:"address"`
	MaxAttendees int       `json:"maxAttendees"`
	Attendees    []string  `json:"attendees"`
	SpotsLeft    *int      `json:"spotsLeft,omitempty"`
	Price        float64   `json:"price"`
	PaymentLink  string    `json:"paymentLink,omitempty"`
}

func NewEventView(ev *models.Event) EventView {
	view := EventView{
		ID:           ev.ID,
		Name:         ev.Name,
		DateTime:     ev.DateTime,
		Place:        ev.Place,
		Address:      ev.Address,
		MaxAttendees: ev.MaxAttendees,
		Attendees:    make([]string, 0, len(ev.Attendees)),
		Price:        ev.Price,
		PaymentLink:  ev.PaymentLink,
	}
	for _, at := range ev.Attendees {
		view.Attendees = append(view.Attendees, at.DisplayName())
	}
	if ev.MaxAttendees > 0 {
		left := ev.MaxAttendees - len(ev.Attendees)
		if left < 0 {
			left = 0
		}
		view.SpotsLeft = &left
	}
	return view
}

func ListUpcomingEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events := es.UpcomingEvents(c.Request.Context())
		views := make([]EventView, 0, len(events))
		for _, ev := range events {
			views = append(views, NewEventView(ev))
		}
		c.JSON(http.StatusOK, models.ListResponse(views, len(views)))
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ev := es.UpcomingEvents(c.Request.Context()).Find(c.Param("id"))
		if ev == nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse("event %s not found", c.Param("id")))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(NewEventView(ev)))
	}
}
