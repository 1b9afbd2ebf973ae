package models

import "time"

// Task is the legacy "tarefas" record. It is not related to products.
type Task struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Titulo    string    `json:"titulo" gorm:"type:varchar(255);not null"`
	Descricao string    `json:"descricao" gorm:"type:text"`
	UsuarioID *string   `json:"usuario_id" gorm:"type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the legacy table name.
func (Task) TableName() string {
	return "tarefas"
}
