package rabbitmq

// Имена обменника, очереди и ключа маршрутизации для событий о пользователях.
const (
	UsersExchange        = "users"
	RegisteredQueue      = "users.registered"
	RegisteredRoutingKey = "registered"
)

// QueueConfig описывает очередь и ключ, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetUserQueues возвращает очереди, объявляемые при старте.
func GetUserQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: RegisteredQueue, RoutingKey: RegisteredRoutingKey},
	}
}
