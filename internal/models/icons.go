package models

import "strings"

// Icon is a rendered glyph: a CSS class from the bundled icon fonts and a
// readable label.
type Icon struct {
	Class string
	Label string
}

var defaultSkillIcon = Icon{Class: "icon-code", Label: "Skill"}

var skillIcons = map[string]Icon{
	"python":     {Class: "devicon-python-plain", Label: "Python"},
	"tensorflow": {Class: "devicon-tensorflow-original", Label: "TensorFlow"},
	"pytorch":    {Class: "devicon-pytorch-original", Label: "PyTorch"},
	"sklearn":    {Class: "devicon-scikitlearn-plain", Label: "scikit-learn"},
	"pandas":     {Class: "devicon-pandas-plain", Label: "pandas"},
	"numpy":      {Class: "devicon-numpy-plain", Label: "NumPy"},
	"jupyter":    {Class: "devicon-jupyter-plain", Label: "Jupyter"},
	"colab":      {Class: "devicon-googlecolab-plain", Label: "Colab"},
	"keras":      {Class: "devicon-keras-plain", Label: "Keras"},
	"opencv":     {Class: "devicon-opencv-plain", Label: "OpenCV"},
	"mongodb":    {Class: "devicon-mongodb-plain", Label: "MongoDB"},
	"postgresql": {Class: "devicon-postgresql-plain", Label: "PostgreSQL"},
	"mysql":      {Class: "devicon-mysql-plain", Label: "MySQL"},
	"firebase":   {Class: "devicon-firebase-plain", Label: "Firebase"},
	"docker":     {Class: "devicon-docker-plain", Label: "Docker"},
	"git":        {Class: "devicon-git-plain", Label: "Git"},
	"javascript": {Class: "devicon-javascript-plain", Label: "JavaScript"},
	"react":      {Class: "devicon-react-original", Label: "React"},
	"nodejs":     {Class: "devicon-nodejs-plain", Label: "Node.js"},
	"typescript": {Class: "devicon-typescript-plain", Label: "TypeScript"},
	"nextjs":     {Class: "devicon-nextjs-plain", Label: "Next.js"},
	"tailwind":   {Class: "devicon-tailwindcss-plain", Label: "Tailwind CSS"},
}

var skillAliases = map[string]string{
	"scikitlearn": "sklearn",
	"googlecolab": "colab",
	"postgres":    "postgresql",
	"node":        "nodejs",
	"tailwindcss": "tailwind",
}

// iconKey keeps only lowercase ASCII letters.
func iconKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SkillIcon resolves the icon for a skill name, falling back to a generic glyph.
func SkillIcon(name string) Icon {
	key := iconKey(name)
	if alias, ok := skillAliases[key]; ok {
		key = alias
	}
	if icon, ok := skillIcons[key]; ok {
		return icon
	}
	return defaultSkillIcon
}

// Social icon keys accepted by the profile editor.
const (
	SocialIconGithub   = "FiGithub"
	SocialIconLinkedin = "FiLinkedin"
	SocialIconMail     = "FiMail"
	SocialIconKaggle   = "SiKaggle"
	SocialIconMedium   = "SiMedium"
)

var socialIcons = map[string]Icon{
	SocialIconGithub:   {Class: "icon-github", Label: "GitHub"},
	SocialIconLinkedin: {Class: "icon-linkedin", Label: "LinkedIn"},
	SocialIconMail:     {Class: "icon-mail", Label: "Email"},
	SocialIconKaggle:   {Class: "icon-kaggle", Label: "Kaggle"},
	SocialIconMedium:   {Class: "icon-medium", Label: "Medium"},
}

// SocialIconOptions lists the keys in editor order.
var SocialIconOptions = []string{SocialIconGithub, SocialIconLinkedin, SocialIconMail, SocialIconKaggle, SocialIconMedium}

// SocialIcon resolves a social link icon key; unknown keys render as mail.
func SocialIcon(key string) Icon {
	if icon, ok := socialIcons[key]; ok {
		return icon
	}
	return socialIcons[SocialIconMail]
}
