package maploader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gloom-server/internal/domain"
	"gloom-server/pkg/logger"
)

// FileVersion - поддерживаемая версия формата уровней.
const FileVersion = 1

// LevelSet - содержимое одного файла уровней.
type LevelSet struct {
	Properties map[string]string
	Width      int // разрешение карты в ячейках (@resolution)
	Height     int
	Levels     []*Level
}

// Level - один уровень: имя, ростеры классов и сырые строки карты.
// Ростеры отображают буквы/цифры карты на классы: заглавная буква N
// означает enemies[N-'A'], строчная - items[N-'a'], цифра D - doors[D-1].
type Level struct {
	ID         int
	Name       string
	Properties map[string]string

	items   []domain.ItemComponent
	enemies []*EnemyArchetype
	doors   []domain.DoorColor
	rows    []string
}

// Load читает файл уровней с диска.
func Load(path string) (*LevelSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open level file: %w", err)
	}
	defer f.Close()
	set, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return set, nil
}

// Parse разбирает текстовый формат уровней:
//
//	@gloomver 1
//	@resolution 24x16
//	@level 1
//	!name ...
//	!items / !enemies / !doors - списки ":имя" до ":end"
//	!map - строки карты до "!end"
//	@end
//
// '#' - стена, '^' - появление игрока, '_' - выход, цифры - двери,
// заглавные буквы - враги, строчные - предметы. '#' в строках свойств
// начинает комментарий; внутри карты комментариев нет.
func Parse(r io.Reader) (*LevelSet, error) {
	sc := bufio.NewScanner(r)
	set := &LevelSet{Properties: make(map[string]string)}
	versionSeen := false

	for sc.Scan() {
		line := uncomment(sc.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "@") {
			continue
		}

		cmd, value := splitDirective(line[1:])
		switch cmd {
		case "end":
			return set, finish(set, versionSeen)
		case "gloomver":
			v, err := strconv.Atoi(value)
			if err != nil || v != FileVersion {
				return nil, fmt.Errorf("unsupported file version %q (want %d)", value, FileVersion)
			}
			versionSeen = true
		case "resolution":
			w, h, err := parseResolution(value)
			if err != nil {
				return nil, err
			}
			set.Width, set.Height = w, h
		case "level":
			id, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("bad level id %q", value)
			}
			lvl, err := parseLevel(sc, id)
			if err != nil {
				return nil, err
			}
			set.Levels = append(set.Levels, lvl)
		default:
			set.Properties[cmd] = value
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return set, finish(set, versionSeen)
}

func finish(set *LevelSet, versionSeen bool) error {
	if !versionSeen {
		return fmt.Errorf("missing @gloomver directive")
	}
	if set.Width <= 0 || set.Height <= 0 {
		return fmt.Errorf("missing or invalid @resolution directive")
	}
	if len(set.Levels) == 0 {
		return fmt.Errorf("no levels in file")
	}
	logger.Log.WithField("levels", len(set.Levels)).Info("Level set loaded.")
	return nil
}

func parseLevel(sc *bufio.Scanner, id int) (*Level, error) {
	lvl := &Level{ID: id, Name: "<?>", Properties: make(map[string]string)}

	for sc.Scan() {
		line := uncomment(sc.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "!") {
			return nil, fmt.Errorf("level %d: unexpected line %q", id, line)
		}

		cmd, value := splitDirective(line[1:])
		switch cmd {
		case "end":
			return lvl, nil
		case "name":
			lvl.Name = value
		case "items":
			names, err := parseClassArray(sc)
			if err != nil {
				return nil, fmt.Errorf("level %d items: %w", id, err)
			}
			for _, n := range names {
				item, ok := itemRoster[n]
				if !ok {
					return nil, fmt.Errorf("level %d: unknown item class %q", id, n)
				}
				lvl.items = append(lvl.items, item)
			}
		case "enemies":
			names, err := parseClassArray(sc)
			if err != nil {
				return nil, fmt.Errorf("level %d enemies: %w", id, err)
			}
			for _, n := range names {
				arch, ok := enemyRoster[n]
				if !ok {
					return nil, fmt.Errorf("level %d: unknown enemy class %q", id, n)
				}
				lvl.enemies = append(lvl.enemies, arch)
			}
		case "doors":
			names, err := parseClassArray(sc)
			if err != nil {
				return nil, fmt.Errorf("level %d doors: %w", id, err)
			}
			for _, n := range names {
				color, ok := doorRoster[n]
				if !ok {
					return nil, fmt.Errorf("level %d: unknown door class %q", id, n)
				}
				lvl.doors = append(lvl.doors, color)
			}
		case "map":
			// Строки карты читаются сырыми: '#' здесь - стена, не комментарий.
			for sc.Scan() {
				raw := strings.TrimRight(sc.Text(), " \t")
				if strings.TrimSpace(raw) == "!end" {
					return lvl, nil
				}
				lvl.rows = append(lvl.rows, raw)
			}
			return nil, fmt.Errorf("level %d: unterminated map", id)
		default:
			if value != "" {
				lvl.Properties[cmd] = value
			}
		}
	}
	return nil, fmt.Errorf("level %d: unterminated level block", id)
}

// parseClassArray читает строки ":имя" до ":end".
func parseClassArray(sc *bufio.Scanner) ([]string, error) {
	var names []string
	for sc.Scan() {
		line := uncomment(sc.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, ":") {
			return nil, fmt.Errorf("unexpected line %q in class list", line)
		}
		name := strings.TrimPrefix(line, ":")
		if name == "end" {
			return names, nil
		}
		names = append(names, name)
	}
	return nil, fmt.Errorf("unterminated class list")
}

// BuildLevel собирает сетку и стартовые сущности уровня idx.
func (s *LevelSet) BuildLevel(idx int, cellSize float64) (*domain.Grid, []*domain.Entity, string, error) {
	if idx < 0 || idx >= len(s.Levels) {
		return nil, nil, "", fmt.Errorf("level index %d out of range", idx)
	}
	lvl := s.Levels[idx]

	grid := domain.NewGrid(s.Width, s.Height, cellSize)
	var entities []*domain.Entity
	spawnSeen := false

	for y, row := range lvl.rows {
		if y >= s.Height {
			break
		}
		for x, ch := range row {
			if x >= s.Width {
				break
			}
			center := grid.CellCenter(x, y)

			switch {
			case ch == '#':
				grid.SetCell(x, y, domain.Cell{Kind: domain.CellWall})

			case ch >= '1' && ch <= '9':
				di := int(ch - '1')
				if di >= len(lvl.doors) {
					return nil, nil, "", fmt.Errorf("level %d: door index %c without roster entry", lvl.ID, ch)
				}
				state := &domain.DoorState{Color: lvl.doors[di]}
				grid.SetCell(x, y, domain.Cell{Kind: domain.CellDoor, Door: state})
				entities = append(entities, &domain.Entity{
					Type: domain.EntityTypeDoor,
					Name: state.Color.String() + " door",
					Pos:  center,
					Size: cellSize,
					Door: &domain.DoorComponent{State: state, CellX: x, CellY: y},
				})

			case ch >= 'A' && ch <= 'Z':
				ei := int(ch - 'A')
				if ei >= len(lvl.enemies) {
					return nil, nil, "", fmt.Errorf("level %d: enemy index %c without roster entry", lvl.ID, ch)
				}
				entities = append(entities, lvl.enemies[ei].NewEntity(center))

			case ch >= 'a' && ch <= 'z':
				ii := int(ch - 'a')
				if ii >= len(lvl.items) {
					return nil, nil, "", fmt.Errorf("level %d: item index %c without roster entry", lvl.ID, ch)
				}
				item := lvl.items[ii]
				entities = append(entities, &domain.Entity{
					Type: domain.EntityTypeItem,
					Name: itemName(item),
					Pos:  center,
					Size: domain.ItemSize,
					Item: &item,
				})

			case ch == '^':
				grid.Spawn = domain.Position{X: x, Y: y}
				spawnSeen = true

			case ch == '_':
				grid.Exit = domain.Position{X: x, Y: y}
				grid.HasExit = true
			}
		}
	}

	if !spawnSeen {
		return nil, nil, "", fmt.Errorf("level %d: no player spawn (^)", lvl.ID)
	}
	return grid, entities, lvl.Name, nil
}

func itemName(item domain.ItemComponent) string {
	switch item.Effect {
	case domain.EffectMediKit:
		return "medikit"
	case domain.EffectStimPack:
		return "stimpack"
	case domain.EffectSupercharge:
		return "supercharge"
	case domain.EffectArmor:
		return "armor"
	case domain.EffectSpeedBoost:
		return "speed boost"
	case domain.EffectWeapon:
		return item.Weapon + " pickup"
	case domain.EffectKeycard:
		return item.Keycard.String() + " keycard"
	}
	return "item"
}

// uncomment обрезает комментарий '#' и пробелы. Пустые строки -> "".
func uncomment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func splitDirective(s string) (cmd, value string) {
	parts := strings.SplitN(s, " ", 2)
	cmd = parts[0]
	if len(parts) > 1 {
		value = strings.TrimSpace(parts[1])
	}
	return cmd, value
}

func parseResolution(s string) (int, int, error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad resolution %q", s)
	}
	w, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("bad resolution %q", s)
	}
	return w, h, nil
}
