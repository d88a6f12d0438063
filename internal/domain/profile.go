package domain

// Profile is one named way of running the review check: which API to ask,
// which queries to try, and how to print what comes back.
type Profile struct {
	Name           string   `yaml:"-"`
	API            API      `yaml:"api"`
	Label          string   `yaml:"label"` // API name used in summary lines
	Title          string   `yaml:"title"`
	Subtitle       string   `yaml:"subtitle"`
	NewestFirst    bool     `yaml:"newest_first"`
	TruncateAt     int      `yaml:"truncate_at"` // 0 disables truncation
	ShowTimestamp  bool     `yaml:"show_timestamp"`
	Verbose        bool     `yaml:"verbose"` // echo each API step as it happens
	SeparatorWidth int      `yaml:"separator_width"`
	BannerWidth    int      `yaml:"banner_width"`
	SuccessNote    string   `yaml:"success_note"`
	EmptyText      string   `yaml:"empty_text"`
	Candidates     []string `yaml:"candidates"`
	Targets        []string `yaml:"targets"`
	Causes         []string `yaml:"causes"`
	Fixes          []string `yaml:"fixes"`
	Note           string   `yaml:"note"`
}
