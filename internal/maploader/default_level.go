package maploader

import "strings"

// defaultLevelText - встроенный уровень на случай запуска без файла уровней.
const defaultLevelText = `
@gloomver 1
@resolution 20x12
@level 1
!name Holding Cells
!items
:medikit
:armor
:bluekeycard
:shotgunpickup
:end
!enemies
:pistoller
:shotgunner
:end
!doors
:bluedoor
:end
!map
####################
#^      #     a    #
#       #          #
#  A    #    ###1###
#       #    #  d  #
####  ###    #     #
#       #    #######
#  b    #      B   #
#       #          #
#       ####  ######
#  c            _  #
####################
!end
@end
`

// DefaultSet возвращает встроенный набор уровней.
func DefaultSet() *LevelSet {
	set, err := Parse(strings.NewReader(defaultLevelText))
	if err != nil {
		panic("default level set is broken: " + err.Error())
	}
	return set
}
