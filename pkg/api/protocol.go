package api

// --- СЕРВЕР -> КЛИЕНТ ---

// Snapshot это корневой объект, который сервер отправляет клиенту.
// Полный "снимок" мира, видимого игроку, отправляется каждый тик симуляции.
type Snapshot struct {
	// Type тип сообщения. На данный момент всегда "UPDATE".
	Type string `json:"type"`

	// Tick текущий тик симуляции. Увеличивается на 1 каждый шаг.
	Tick int `json:"tick"`

	// Level имя текущего уровня, LevelIndex - его порядковый номер (с нуля).
	Level      string `json:"level"`
	LevelIndex int    `json:"levelIndex"`

	// Grid метаданные о размере карты и ячейки.
	Grid *GridMeta `json:"grid,omitempty"`

	// Tiles срез тайлов, которые игрок видит или когда-либо видел.
	// Никогда не содержит неисследованных тайлов.
	Tiles []TileView `json:"tiles,omitempty"`

	// Entities срез сущностей на видимых сейчас тайлах (плюс сам игрок).
	Entities []EntityView `json:"entities,omitempty"`

	// Player состояние HUD игрока.
	Player *PlayerView `json:"player,omitempty"`

	GameOver bool `json:"gameOver"`
	Won      bool `json:"won"`
}

// GridMeta содержит размеры карты, чтобы клиент знал,
// какую сетку для рендеринга нужно подготовить.
type GridMeta struct {
	Width    int     `json:"w"`
	Height   int     `json:"h"`
	CellSize float64 `json:"cellSize"`
}

// TileView это DTO для одного тайла карты.
type TileView struct {
	X int `json:"x"`
	Y int `json:"y"`

	// Kind тип тайла: "EMPTY", "WALL" или "DOOR".
	Kind string `json:"kind"`

	// DoorColor и DoorOpen заполняются только для дверей.
	DoorColor string `json:"doorColor,omitempty"`
	DoorOpen  bool   `json:"doorOpen,omitempty"`

	// Visible true, если тайл в текущем поле зрения. Рендерится ярко.
	Visible bool `json:"visible"`

	// Explored true, если тайл когда-либо был увиден. Используется для
	// "тумана войны": Visible=false, Explored=true рендерится тускло.
	Explored bool `json:"explored"`
}

// EntityView это DTO для игровой сущности.
type EntityView struct {
	ID   uint64 `json:"id"`
	Type string `json:"type"` // PLAYER, ENEMY, ITEM, DOOR, PROJECTILE
	Name string `json:"name"`

	// X, Y - центр сущности в пикселях, Size - сторона её квадрата.
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// WeaponSlotView это DTO одного слота оружия в HUD.
type WeaponSlotView struct {
	Slot      int    `json:"slot"`
	Name      string `json:"name"`
	Magazine  int    `json:"magazine"`
	Reserve   int    `json:"reserve"`
	Active    bool   `json:"active"`
	Reloading bool   `json:"reloading"`
}

// PlayerView это состояние HUD: здоровье, броня, арсенал и карточки доступа.
type PlayerView struct {
	HP    float64 `json:"hp"`
	MaxHP float64 `json:"maxHp"`
	Armor float64 `json:"armor"`

	Weapon    string `json:"weapon"` // имя активного оружия
	Magazine  int    `json:"magazine"`
	Reserve   int    `json:"reserve"`
	Reloading bool   `json:"reloading"`

	Slots    []WeaponSlotView `json:"slots,omitempty"`
	Keycards []string         `json:"keycards,omitempty"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// IntentMessage это сообщение ввода от клиента. Клиент шлет его при каждом
// изменении состояния органов управления; сервер хранит последнее полученное
// и применяет его каждый тик (Fire и Move действуют, пока удерживаются,
// Reload и SwitchSlot срабатывают однократно).
type IntentMessage struct {
	// MoveX, MoveY - желаемое направление движения, каждая ось в [-1, 1].
	MoveX float64 `json:"moveX"`
	MoveY float64 `json:"moveY"`

	// AimX, AimY - направление прицеливания (вектор, нормировать не обязательно).
	AimX float64 `json:"aimX"`
	AimY float64 `json:"aimY"`

	Fire   bool `json:"fire"`
	Reload bool `json:"reload"`

	// SwitchSlot выбирает слот оружия (с нуля). -1 означает "не переключать".
	SwitchSlot int `json:"switchSlot"`
}
