package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// sampleSource is a small catalog source in the on-disk JSON shape.
const sampleSource = `{
	"1": {"id": 89631139, "cn_name": "青眼白龙", "en_name": "Blue-Eyes White Dragon", "text": {"types": "[怪兽|通常] 龙/光", "desc": "以高攻击力著称的传说之龙。"}, "point": 0},
	"2": {"id": 23995346, "cn_name": "青眼究极龙", "en_name": "Blue-Eyes Ultimate Dragon", "text": {"types": "[怪兽|融合] 龙/光"}, "point": 5},
	"3": {"id": 44508094, "cn_name": "星尘龙", "en_name": "Stardust Dragon", "text": {"types": "[怪兽|效果|同调] 龙/风"}, "point": 10},
	"4": {"id": 84013237, "cn_name": "No.39 希望皇 霍普", "jp_name": "No.39 希望皇ホープ", "text": {"types": "[怪兽|效果|超量] 战士/光"}},
	"5": {"id": 1861629, "cn_name": "解码语者", "text": {"types": "[怪兽|效果|链接] 电子界/暗"}},
	"6": {"id": 16178681, "cn_name": "异色眼灵摆龙", "text": {"types": "[怪兽|效果|灵摆] 龙/暗"}},
	"7": {"cn_name": "无编号卡", "text": {"types": "[魔法|通常]"}},
	"8": "not an object",
	"9": {"id": "abc", "cn_name": "坏编号"},
	"10": {"id": 55144522, "cn_name": "", "en_name": "Pot of Greed", "text": {"types": "[魔法|通常]"}, "point": 3},
	"11": {"id": 70781052, "text": {"types": "[魔法|通常]"}}
}`

func loadSample(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(strings.NewReader(sampleSource))
	if err != nil {
		t.Fatalf("Load sample catalog: %v", err)
	}
	return c
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
