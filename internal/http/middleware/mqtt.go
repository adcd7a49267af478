package middleware

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const videoEventsTopic = "videos/events"

var (
	mqttClient mqtt.Client
	brokerURL  = "tcp://0.0.0.0:1883" // Default MQTT broker URL
)

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// SetBrokerURL allows configuration of the MQTT broker URL
func SetBrokerURL(url string) {
	brokerURL = url
}

// CreateMQTTClient connects the process-wide publisher client.
func CreateMQTTClient(clientName string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientName)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	mqttClient = mqtt.NewClient(opts)
	if token := mqttClient.Connect(); token.Wait() && token.Error() != nil {
		mqttClient = nil
		return nil, fmt.Errorf("failed to connect to MQTT broker: %v", token.Error())
	}

	log.Info().Str("broker", brokerURL).Msg("MQTT client initialized")
	return mqttClient, nil
}

// PublishVideoEvent broadcasts a video lifecycle event (published/unpublished)
// to subscribed clients. Best effort: callers only log failures.
func PublishVideoEvent(message []byte) error {
	if mqttClient == nil {
		return fmt.Errorf("MQTT client not initialized")
	}

	token := mqttClient.Publish(videoEventsTopic, 1, false, message)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish video event: %v", token.Error())
	}
	return nil
}

// CleanupMQTT disconnects the publisher client.
func CleanupMQTT() {
	if mqttClient != nil {
		mqttClient.Disconnect(250)
		mqttClient = nil
		log.Info().Msg("MQTT client disconnected")
	}
}
