package account

// Mirror receives the persistent attributes of an Account. A connected player
// implements it so that a bound account can keep the player in sync.
type Mirror interface {
	SetTeam(team int)
	SetSkin(skin int)
	SetMoney(money int)
	SetScore(score int)
	SetHealth(health float32)
	SetArmour(armour float32)
	SetColor(color Color)
	SetSpawn(spawn Place)
}

// Attributes is a snapshot of every mirrored value.
type Attributes struct {
	Team   int     `json:"team"`
	Skin   int     `json:"skin"`
	Money  int     `json:"money"`
	Score  int     `json:"score"`
	Health float32 `json:"health"`
	Armour float32 `json:"armour"`
	Color  Color   `json:"color"`
	Spawn  Place   `json:"spawn"`
}

// LoggedOut is the baseline applied to a player once its session ends.
var LoggedOut = Attributes{
	Health: 100,
	Color:  ColorNone,
	Spawn:  Origin,
}

// NewAccountAttributes returns the attributes of a freshly created account.
func NewAccountAttributes(spawn Place) Attributes {
	return Attributes{
		Team:   0,
		Skin:   1,
		Money:  0,
		Score:  1,
		Health: 100,
		Armour: 0,
		Color:  ColorWhite,
		Spawn:  spawn,
	}
}

// ApplyTo pushes every attribute onto m.
func (a Attributes) ApplyTo(m Mirror) {
	m.SetSpawn(a.Spawn)
	m.SetTeam(a.Team)
	m.SetSkin(a.Skin)
	m.SetMoney(a.Money)
	m.SetScore(a.Score)
	m.SetHealth(a.Health)
	m.SetArmour(a.Armour)
	m.SetColor(a.Color)
}
