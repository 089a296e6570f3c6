package domain

type JobStatus string

const (
	JobAvailable  JobStatus = "available"
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
)

// Job - запись из общей таблицы заказов. Поиском и публикацией занимается другой сервис,
// здесь только чтение и отметка о завершении
type Job struct {
	ID           string
	ClientID     string
	FreelancerID string
	Title        string
	Budget       int64
	Currency     string
	Status       JobStatus
}
