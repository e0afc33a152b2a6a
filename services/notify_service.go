package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/avivhostel-jpg/Smart-Aviv/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTT topics for downstream consumers (dashboards, station displays)
const (
	topicEntityChange = "aviv/records/%s"
	topicSyncStatus   = "aviv/sync/status"
)

// InterfaceNotifyService 定义变更通知服务接口。
// 通知是尽力而为的：代理不可用时静默丢弃，绝不阻塞业务写入。
type InterfaceNotifyService interface {
	Connect() error
	Disconnect()
	PublishEntityChange(collection, id, action string)
	PublishSyncStatus(status string)
}

// NotifyService 基于MQTT的变更通知服务
type NotifyService struct {
	client  mqtt.Client
	enabled bool
}

// entityChangeMessage is the wire payload on the records topics
type entityChangeMessage struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Action     string `json:"action"`
	Timestamp  int64  `json:"timestamp"`
}

// NewNotifyService creates the notification service. With no broker URL
// configured it stays a no-op.
func NewNotifyService(cfg *config.Config) InterfaceNotifyService {
	s := &NotifyService{}
	if cfg.MQTTBrokerURL == "" {
		return s
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBrokerURL).
		SetClientID(cfg.MQTTClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectTimeout(5 * time.Second)

	s.client = mqtt.NewClient(opts)
	s.enabled = true
	return s
}

// Connect 连接MQTT服务器
func (s *NotifyService) Connect() error {
	if !s.enabled {
		return nil
	}
	token := s.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("mqtt connect timeout")
	}
	return token.Error()
}

// Disconnect 断开MQTT连接
func (s *NotifyService) Disconnect() {
	if s.enabled && s.client.IsConnected() {
		s.client.Disconnect(250)
	}
}

// PublishEntityChange 发布实体变更消息
func (s *NotifyService) PublishEntityChange(collection, id, action string) {
	if !s.enabled || !s.client.IsConnected() {
		return
	}

	payload, err := json.Marshal(entityChangeMessage{
		Collection: collection,
		ID:         id,
		Action:     action,
		Timestamp:  time.Now().UnixMilli(),
	})
	if err != nil {
		config.Error("通知消息序列化失败: %v", err)
		return
	}

	topic := fmt.Sprintf(topicEntityChange, collection)
	token := s.client.Publish(topic, 0, false, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			config.Warning("通知发布失败: topic=%s err=%v", topic, token.Error())
		}
	}()
}

// PublishSyncStatus 发布同步状态，消息保留以便新订阅者读到当前状态
func (s *NotifyService) PublishSyncStatus(status string) {
	if !s.enabled || !s.client.IsConnected() {
		return
	}
	token := s.client.Publish(topicSyncStatus, 0, true, status)
	go func() {
		if token.Wait() && token.Error() != nil {
			config.Warning("同步状态发布失败: %v", token.Error())
		}
	}()
}
