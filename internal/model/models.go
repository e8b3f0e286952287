package model

// All lists every persisted model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Department{},
		&User{},
		&Plan{},
		&StrategicGoal{},
		&KPI{},
		&MajorActivity{},
		&DetailActivity{},
		&Report{},
		&KPIReport{},
		&MajorActivityReport{},
		&DetailActivityReport{},
		&ApprovalLog{},
	}
}
