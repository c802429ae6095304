package database

import (
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// NewKafkaWriterWithRetry 先確認 broker metadata 可讀再建立 Writer。
// 不往正式 topic 塞測試訊息，下游 consumer 讀到的都是真事件
func NewKafkaWriterWithRetry(k KafkaConnection) (*kafka.Writer, error) {
	var err error

	for attempt := 1; attempt <= k.RetryCount; attempt++ {
		var conn *kafka.Conn
		conn, err = kafka.Dial("tcp", k.Brokers[0])
		if err == nil {
			_, err = conn.Brokers()
			conn.Close()
			if err == nil {
				log.Printf("Kafka Writer 建立成功 (嘗試 %d 次)", attempt)
				return kafka.NewWriter(kafka.WriterConfig{
					Brokers:  k.Brokers,
					Topic:    k.Topic,
					Balancer: &kafka.LeastBytes{},
				}), nil
			}
		}

		log.Printf("Kafka Writer 建立失敗 (嘗試 %d/%d): %v", attempt, k.RetryCount, err)
		time.Sleep(k.RetryInterval * time.Second)
	}

	return nil, fmt.Errorf("無法建立 Kafka Writer，經過 %d 次嘗試: %v", k.RetryCount, err)
}
