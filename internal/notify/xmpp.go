// Package notify sends remote alerts over XMPP when the failsafe latches or
// the telemetry link drops. Alerts are best effort; a send failure is logged
// and forgotten.
package notify

import (
	"crypto/tls"
	"errors"
	"log"
	"strings"

	"github.com/mattn/go-xmpp"
)

// Config holds the XMPP account used for alerts. An empty Jid disables
// alerting entirely.
type Config struct {
	Host     string
	Jid      string
	Password string
	To       string
}

// Xmpp sends chat messages to a fixed recipient.
type Xmpp struct {
	Config Config
}

// Enabled reports whether alerting is configured.
func (x Xmpp) Enabled() bool {
	return len(x.Config.Jid) > 0 && len(x.Config.Password) > 0 && len(x.Config.To) > 0
}

func serverName(jid string) string {
	return strings.Split(jid, "@")[1]
}

// Send delivers one chat message, connecting fresh each time. Alerts are
// rare enough that holding a session open is not worth the reconnect logic.
func (x Xmpp) Send(message string) error {
	if !x.Enabled() {
		return errors.New("missing xmpp config")
	}

	if len(x.Config.Host) == 0 {
		x.Config.Host = serverName(x.Config.Jid)
	}

	xmpp.DefaultConfig = tls.Config{
		InsecureSkipVerify: true,
	}

	options := xmpp.Options{
		Host:     x.Config.Host,
		User:     x.Config.Jid,
		Password: x.Config.Password,
		NoTLS:    true,
		StartTLS: true,
		Session:  false,
		Status:   "xa",
	}

	talk, err := options.NewClient()
	if err != nil {
		log.Printf("[notify] xmpp connect: %v", err)
		return err
	}

	_, err = talk.Send(xmpp.Chat{Remote: x.Config.To, Type: "chat", Text: message})
	return err
}
