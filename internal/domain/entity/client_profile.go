package entity

// ClientProfile holds client-specific data for a Person with RoleClient
type ClientProfile struct {
	PersonID            uint    `gorm:"primaryKey;autoIncrement:false" json:"person_id"`
	Age                 *int    `gorm:"index" json:"age,omitempty"`
	GuardianName        *string `gorm:"type:varchar(255);index" json:"guardian_name,omitempty"`
	Neighborhood        *string `gorm:"type:varchar(255);index" json:"neighborhood,omitempty"`
	Address             *string `gorm:"type:varchar(255)" json:"address,omitempty"`
	ReferredBySchool    bool    `gorm:"not null;default:false;index:idx_client_profiles_school,priority:1" json:"referred_by_school"`
	SchoolName          *string `gorm:"type:varchar(255);index:idx_client_profiles_school,priority:2" json:"school_name,omitempty"`
	ConversationStateID *uint   `gorm:"index" json:"conversation_state_id,omitempty"`

	// Relationships
	ConversationState *ConversationState `gorm:"foreignKey:ConversationStateID;constraint:OnDelete:SET NULL" json:"conversation_state,omitempty"`
}

func (ClientProfile) TableName() string {
	return "client_profiles"
}

func (*ClientProfile) Role() Role {
	return RoleClient
}

// Age bounds accepted for a client
const (
	MinClientAge = 0
	MaxClientAge = 120
)
