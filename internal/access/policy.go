package access

import "fmt"

type Derivative struct {
	Label   string `yaml:"label"`
	MaxSize int    `yaml:"max_size"`
}

func (d Derivative) Title() string {
	return fmt.Sprintf("%s (%dpx)", d.Label, d.MaxSize)
}

// Policy holds the tunable parts of access evaluation.
type Policy struct {
	EditPermissions []string
	Derivatives     []Derivative

	// LoginPromptWithoutGain shows the login link on a restricted notice even
	// when signing in would not unlock anything beyond the public roles.
	LoginPromptWithoutGain bool
}

func DefaultDerivatives() []Derivative {
	return []Derivative{
		{Label: "Small JPG", MaxSize: 800},
		{Label: "Medium JPG", MaxSize: 1600},
	}
}

func DefaultPolicy() Policy {
	return Policy{
		EditPermissions: DefaultEditPermissions(),
		Derivatives:     DefaultDerivatives(),
	}
}
