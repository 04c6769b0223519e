package domain

// Position - целочисленные координаты ячейки. Вся дистанционная математика
// живет в непрерывных координатах (mgl64), здесь только индексы сетки.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}
