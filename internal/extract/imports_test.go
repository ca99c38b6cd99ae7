package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetSource = `import React from 'react';
import type { Props } from './types';
import {
  Service,
  helper as h,
} from '../lib/service';
import './polyfill';
export { thing } from './thing';
const fs = require('fs');
const lazy = () => import('./lazy');

export class Widget extends Service implements Props {
  private svc = new Service();
}
`

func TestScanDependencies_ECMAScript(t *testing.T) {
	deps := ScanDependencies([]byte(widgetSource), LangTypeScript)

	want := []Dependency{
		{Type: DepImport, Target: "react", Line: 1, IsExternal: true},
		{Type: DepImport, Target: "./types", Line: 2, TypeOnly: true},
		{Type: DepImport, Target: "../lib/service", Line: 3},
		{Type: DepImport, Target: "./polyfill", Line: 7},
		{Type: DepExport, Target: "./thing", Line: 8},
		{Type: DepImport, Target: "fs", Line: 9, IsExternal: true},
		{Type: DepImport, Target: "./lazy", Line: 10, Dynamic: true},
		{Type: DepInheritance, Target: "../lib/service", Line: 12},
		{Type: DepInheritance, Target: "./types", Line: 12},
		{Type: DepComposition, Target: "../lib/service", Line: 13},
	}
	assert.ElementsMatch(t, want, deps)
}

func TestScanDependencies_ExportDoesNotSwallowNextImport(t *testing.T) {
	src := "export {\n  a,\n  b\n}\nimport c from './c'\n"
	deps := ScanDependencies([]byte(src), LangJavaScript)

	require.Len(t, deps, 1)
	assert.Equal(t, DepImport, deps[0].Type)
	assert.Equal(t, "./c", deps[0].Target)
	assert.Equal(t, 5, deps[0].Line)
}

func TestScanDependencies_DuplicatesCollapse(t *testing.T) {
	src := "import a from './x'\nimport { b } from './x'\n"
	deps := ScanDependencies([]byte(src), LangJavaScript)

	require.Len(t, deps, 1)
	assert.Equal(t, 1, deps[0].Line)
}

func TestScanDependencies_UnboundInheritanceIgnored(t *testing.T) {
	src := "class Local {}\nclass Child extends Local {}\nconst m = new Map();\n"
	assert.Empty(t, ScanDependencies([]byte(src), LangJavaScript))
}

func TestScanDependencies_Python(t *testing.T) {
	src := `import os
import numpy as np
from typing import List
from .models import User
from ..core.db import Session
from . import views, utils as u

class Admin(User, metaclass=Meta):
    def __init__(self):
        self.session = Session()
`
	deps := ScanDependencies([]byte(src), LangPython)

	want := []Dependency{
		{Type: DepImport, Target: "os", Line: 1, IsExternal: true},
		{Type: DepImport, Target: "numpy", Line: 2, IsExternal: true},
		{Type: DepImport, Target: "typing", Line: 3, IsExternal: true},
		{Type: DepImport, Target: "./models", Line: 4},
		{Type: DepImport, Target: "../core/db", Line: 5},
		{Type: DepImport, Target: "./views", Line: 6},
		{Type: DepImport, Target: "./utils", Line: 6},
		{Type: DepInheritance, Target: "./models", Line: 8},
		{Type: DepComposition, Target: "../core/db", Line: 10},
	}
	assert.ElementsMatch(t, want, deps)
}

func TestScanDependencies_UnsupportedLanguage(t *testing.T) {
	assert.Nil(t, ScanDependencies([]byte("package main"), Language("go")))
}

func TestPythonRelative(t *testing.T) {
	tests := []struct {
		module     string
		wantPrefix string
		wantRest   string
	}{
		{".", "./", ""},
		{".models", "./", "models"},
		{"..core.db", "../", "core/db"},
		{"...pkg", "../../", "pkg"},
	}
	for _, tt := range tests {
		prefix, rest := pythonRelative(tt.module)
		assert.Equal(t, tt.wantPrefix, prefix, tt.module)
		assert.Equal(t, tt.wantRest, rest, tt.module)
	}
}

func TestIsRelative(t *testing.T) {
	assert.True(t, IsRelative("./a"))
	assert.True(t, IsRelative("../a"))
	assert.True(t, IsRelative("/src/a"))
	assert.False(t, IsRelative("react"))
	assert.False(t, IsRelative("@scope/pkg"))
}
