package cdn

// Realm is the per-region manifest served under /realms.
type Realm struct {
	Version      string            `json:"v"`
	Locale       string            `json:"l"`
	Cdn          string            `json:"cdn"`
	DataVersions map[string]string `json:"n"`
}

// Dataset is the envelope shared by every keyed Data Dragon file.
type Dataset[T any] struct {
	Type    string       `json:"type"`
	Version string       `json:"version"`
	Data    map[string]T `json:"data"`
}

type (
	ChampionList      = Dataset[Champion]
	ItemList          = Dataset[Item]
	SummonerSpellList = Dataset[SummonerSpell]
	MapList           = Dataset[MapData]
	ProfileIconList   = Dataset[ProfileIcon]
	LanguageStrings   = Dataset[string]
)

// Champion keys are numeric strings; ID is the alphanumeric name key.
type Champion struct {
	Version string   `json:"version"`
	ID      string   `json:"id"`
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Blurb   string   `json:"blurb"`
	Tags    []string `json:"tags"`
	Image   Image    `json:"image"`
}

type Item struct {
	Name      string   `json:"name"`
	Plaintext string   `json:"plaintext"`
	Into      []string `json:"into"`
	Tags      []string `json:"tags"`
	Image     Image    `json:"image"`
	Gold      struct {
		Total int `json:"total"`
	} `json:"gold"`
}

type SummonerSpell struct {
	ID            string   `json:"id"`
	Key           string   `json:"key"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	SummonerLevel int      `json:"summonerLevel"`
	Modes         []string `json:"modes"`
	Image         Image    `json:"image"`
}

// RuneTree is one path of runesReforged.json; runes sit in ordered slots.
type RuneTree struct {
	ID    int        `json:"id"`
	Key   string     `json:"key"`
	Name  string     `json:"name"`
	Icon  string     `json:"icon"`
	Slots []RuneSlot `json:"slots"`
}

type RuneSlot struct {
	Runes []Rune `json:"runes"`
}

type Rune struct {
	ID        int    `json:"id"`
	Key       string `json:"key"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	ShortDesc string `json:"shortDesc"`
}

type MapData struct {
	MapName string `json:"MapName"`
	MapID   string `json:"MapId"`
	Image   Image  `json:"image"`
}

type ProfileIcon struct {
	ID    int   `json:"id"`
	Image Image `json:"image"`
}

type Image struct {
	Full string `json:"full"`
}
