package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"time"

	"parkconnect/internal/booking"
	"parkconnect/internal/entities"
	"parkconnect/internal/repository"
)

// SenderService turns lifecycle transitions into driver-facing email and
// SMS. It subscribes to the coordinator and reacts to confirmed and
// cancelled bookings; everything runs off the request path.
type SenderService struct {
	coord *booking.Coordinator
	users repository.UserRepository
}

func NewSenderService(coord *booking.Coordinator, users repository.UserRepository) *SenderService {
	return &SenderService{coord: coord, users: users}
}

// HandleTransition is the coordinator subscriber. It must not block, so
// the actual work runs in its own goroutine.
func (s *SenderService) HandleTransition(t booking.Transition) {
	if t.To != booking.StatusConfirmed && t.To != booking.StatusCancelled {
		return
	}
	go s.send(t)
}

func (s *SenderService) send(t booking.Transition) {
	res, err := s.coord.GetReservation(context.Background(), t.ReservationID)
	if err != nil {
		log.Printf("Notify: booking %s not found: %v", t.Code, err)
		return
	}
	user, err := s.users.GetByID(res.DriverID)
	if err != nil || user == nil {
		log.Printf("Notify: no driver record for booking %s: %v", t.Code, err)
		return
	}
	sp, err := s.coord.GetSpace(res.SpaceID)
	if err != nil {
		log.Printf("Notify: space %s not found for booking %s: %v", res.SpaceID, t.Code, err)
		return
	}

	loc, errLoc := time.LoadLocation("Asia/Kolkata")
	if errLoc != nil {
		loc = time.FixedZone("IST", 5*3600+1800)
	}

	emailData := entities.BookingEmailData{
		UserName:       user.Name,
		BookingCode:    res.Code,
		SpaceTitle:     sp.Title,
		SpaceAddress:   sp.Address,
		DateFormatted:  res.Range.StartTime().Format("02 Jan 2006"),
		StartFormatted: booking.FormatTimeOfDay(res.Range.StartMinute),
		EndFormatted:   booking.FormatTimeOfDay(res.Range.EndMinute),
		TotalPrice:     res.TotalPrice,
		Status:         string(t.To),
		CurrentYear:    time.Now().In(loc).Year(),
	}

	subject := fmt.Sprintf("Your ParkConnect booking is %s - Code: %s", emailData.Status, res.Code)
	plainBody := fmt.Sprintf(
		"Hello %s,\n\nYour parking booking at %s is %s.\n\n"+
			"Booking Details:\n"+
			"Booking Code: %s\n"+
			"Location: %s\n"+
			"Date: %s\n"+
			"From: %s\n"+
			"To: %s\n"+
			"Total: Rs. %d\n\n"+
			"Thank you for choosing ParkConnect.",
		emailData.UserName, emailData.SpaceTitle, emailData.Status,
		emailData.BookingCode, emailData.SpaceAddress, emailData.DateFormatted,
		emailData.StartFormatted, emailData.EndFormatted, emailData.TotalPrice,
	)

	htmlBody := ""
	tmplPath := filepath.Join("internal", "templates", "booking_email.html")
	if tmpl, err := template.ParseFiles(tmplPath); err != nil {
		log.Printf("Notify: could not parse email template (%s): %v", tmplPath, err)
	} else {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, emailData); err != nil {
			log.Printf("Notify: could not render email template for booking %s: %v", res.Code, err)
		} else {
			htmlBody = buf.String()
		}
	}

	if user.Email != "" {
		if err := SendEmailWithSendGrid(user.Email, user.Name, subject, plainBody, htmlBody); err != nil {
			log.Printf("Notify: email for booking %s failed: %v", res.Code, err)
		}
	}
	if user.Phone != "" {
		sms := fmt.Sprintf("ParkConnect: Booking %s is %s!\n%s, %s %s-%s.\nMore details in your email.",
			res.Code, emailData.Status, sp.Title, emailData.DateFormatted,
			emailData.StartFormatted, emailData.EndFormatted)
		if err := SendSMS(user.Phone, sms); err != nil {
			log.Printf("Notify: SMS for booking %s failed: %v", res.Code, err)
		}
	}
}
