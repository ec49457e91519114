package extract

import "strings"

// Province is returned when no gazetteer entry matches.
const Province = "江苏省"

type prefecture struct {
	name    string
	aliases []string
}

// gazetteer lists the prefectures of the province in scan order, each with
// the districts, counties and county-level cities that map to it.
// Ambiguous names (鼓楼, 通州, 新北) are left out on purpose.
var gazetteer = []prefecture{
	{"南京", []string{"玄武区", "秦淮区", "建邺区", "浦口区", "栖霞区", "雨花台区", "江宁", "六合区", "溧水", "高淳"}},
	{"苏州", []string{"姑苏区", "吴中区", "相城区", "吴江", "昆山", "常熟", "张家港", "太仓"}},
	{"无锡", []string{"梁溪区", "锡山区", "惠山区", "滨湖区", "新吴区", "江阴", "宜兴"}},
	{"常州", []string{"天宁区", "钟楼区", "武进", "金坛", "溧阳"}},
	{"南通", []string{"崇川区", "海门", "如皋", "启东", "海安", "如东"}},
	{"扬州", []string{"广陵区", "邗江", "江都", "仪征", "高邮", "宝应"}},
	{"镇江", []string{"京口区", "润州区", "丹徒", "丹阳", "扬中", "句容"}},
	{"泰州", []string{"海陵区", "高港区", "姜堰", "兴化", "靖江", "泰兴"}},
	{"徐州", []string{"铜山区", "贾汪区", "邳州", "新沂", "丰县", "沛县", "睢宁"}},
	{"盐城", []string{"亭湖区", "盐都", "大丰", "东台", "射阳", "阜宁", "滨海县", "响水", "建湖"}},
	{"淮安", []string{"清江浦区", "淮阴区", "洪泽", "涟水", "盱眙", "金湖"}},
	{"连云港", []string{"海州区", "赣榆", "东海县", "灌云", "灌南"}},
	{"宿迁", []string{"宿城区", "宿豫", "沭阳", "泗阳", "泗洪"}},
}

// Location maps the first gazetteer hit to its prefecture, scanning the
// title before the content.
func Location(title, content string) string {
	for _, text := range []string{title, content} {
		if pref, ok := lookupPrefecture(normalize(text)); ok {
			return Province + pref + "市"
		}
	}
	return Province
}

func lookupPrefecture(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, p := range gazetteer {
		if strings.Contains(text, p.name) {
			return p.name, true
		}
		for _, alias := range p.aliases {
			if strings.Contains(text, alias) {
				return p.name, true
			}
		}
	}
	return "", false
}
