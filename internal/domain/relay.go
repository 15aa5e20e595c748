package domain

import "time"

// ServerBinding asocia un servidor de la red con su canal de relay.
// Vive solo en memoria: al reiniciar el bot hay que correr /setup de nuevo.
type ServerBinding struct {
	ServerID    string
	ChannelID   string
	DisplayName string
	Enabled     bool
	BoundAt     time.Time
}

// InboundMessage es el evento crudo que entrega el gateway.
type InboundMessage struct {
	ServerID     string
	ChannelID    string
	MessageID    string
	UserID       string
	AuthorName   string
	AuthorAvatar string
	Content      string
	SentAt       time.Time
}

// RelayMessage es el mensaje ya validado, listo para formatear.
type RelayMessage struct {
	OriginServerID string
	AuthorName     string
	AuthorAvatar   string
	Content        string
	SentAt         time.Time
}

// RelayPayload es la representación de salida: solo nombres visibles,
// nunca IDs crudos.
type RelayPayload struct {
	AuthorName   string
	AuthorAvatar string
	OriginName   string
	Content      string
	SentAt       time.Time
}

type DeliveryFailure struct {
	ServerID string
	Err      error
}

// BroadcastReport resume un fan-out: cuántos destinos recibieron el mensaje
// y cuáles fallaron. Un fallo parcial no invalida el envío.
type BroadcastReport struct {
	ID        string
	Delivered int
	Failed    []DeliveryFailure
}
